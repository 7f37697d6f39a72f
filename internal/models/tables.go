package models

// AllTables lists every model persisted by the store, in creation order.
func AllTables() []interface{} {
	return []interface{}{
		&APIKey{},
		&ConfigPath{},
		&CurrentConfigPath{},
		&CurrentRouterConfigPath{},
		&Backup{},
		&RouteConfig{},
		&Provider{},
		&RouterSetting{},
		&Project{},
		&Category{},
	}
}
