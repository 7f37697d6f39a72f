package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/ccm/internal/db"
	"github.com/asteroid-belt/ccm/internal/models"
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Manage proxy route definitions",
	Long: `Manage proxy route definitions.

Subcommands:
  list                                      List routes
  add <name> <path> <method> <handler>      Store a route
  update <id>                               Change fields of a route
  delete <id>                               Remove a route
  show <id>                                 Print one route`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var routeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List routes",
	Args:  cobra.NoArgs,
	RunE:  runRouteList,
}

var routeAddCmd = &cobra.Command{
	Use:   "add <name> <path> <method> <handler>",
	Short: "Store a route",
	Args:  cobra.ExactArgs(4),
	RunE:  runRouteAdd,
}

var routeUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a route",
	Args:  cobra.ExactArgs(1),
	RunE:  runRouteUpdate,
}

var routeDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a route",
	Args:  cobra.ExactArgs(1),
	RunE:  runRouteDelete,
}

var routeShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one route",
	Args:  cobra.ExactArgs(1),
	RunE:  runRouteShow,
}

func init() {
	for _, c := range []*cobra.Command{routeAddCmd, routeUpdateCmd} {
		c.Flags().StringSlice("middleware", nil, "Middleware names, in order")
		c.Flags().Bool("auth", false, "Require authentication")
		c.Flags().String("description", "", "Free-form description")
	}
	routeUpdateCmd.Flags().String("name", "", "New name")
	routeUpdateCmd.Flags().String("path", "", "New path")
	routeUpdateCmd.Flags().String("method", "", "New HTTP method")
	routeUpdateCmd.Flags().String("handler", "", "New handler")

	routeCmd.AddCommand(routeListCmd)
	routeCmd.AddCommand(routeAddCmd)
	routeCmd.AddCommand(routeUpdateCmd)
	routeCmd.AddCommand(routeDeleteCmd)
	routeCmd.AddCommand(routeShowCmd)
}

func runRouteList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("route list", err)
	}
	defer s.Close()

	routes, err := s.db.ListRouteConfigs()
	if err != nil {
		return trackCLIError("route list", err)
	}
	if len(routes) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No routes stored.")
		return nil
	}

	rows := make([][]string, 0, len(routes))
	for _, r := range routes {
		rows = append(rows, routeRow(r))
	}
	printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "METHOD", "PATH", "HANDLER", "MIDDLEWARE", "AUTH"}, rows)
	return nil
}

func runRouteAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("route add", err)
	}
	defer s.Close()

	middleware, _ := cmd.Flags().GetStringSlice("middleware")
	auth, _ := cmd.Flags().GetBool("auth")
	r, err := s.db.CreateRouteConfig(models.CreateRouteConfigRequest{
		Name:         args[0],
		Path:         args[1],
		Method:       strings.ToUpper(args[2]),
		Handler:      args[3],
		Middleware:   middleware,
		AuthRequired: auth,
		Description:  optionalOrNil(cmd, "description"),
	})
	if err != nil {
		return trackCLIError("route add", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added route '%s' (%s).\n", r.Name, r.ID)
	return nil
}

func runRouteUpdate(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("route update", err)
	}
	defer s.Close()

	req := models.UpdateRouteConfigRequest{
		Name:        optional(cmd, "name"),
		Path:        optional(cmd, "path"),
		Method:      optional(cmd, "method"),
		Handler:     optional(cmd, "handler"),
		Description: optional(cmd, "description"),
	}
	if req.Method != nil {
		upper := strings.ToUpper(*req.Method)
		req.Method = &upper
	}
	if cmd.Flags().Changed("middleware") {
		middleware, _ := cmd.Flags().GetStringSlice("middleware")
		req.Middleware = &middleware
	}
	if cmd.Flags().Changed("auth") {
		auth, _ := cmd.Flags().GetBool("auth")
		req.AuthRequired = &auth
	}

	r, err := s.db.UpdateRouteConfig(args[0], req)
	if err != nil {
		return trackCLIError("route update", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated route '%s'.\n", r.Name)
	return nil
}

func runRouteDelete(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("route delete", err)
	}
	defer s.Close()

	deleted, err := s.db.DeleteRouteConfig(args[0])
	if err != nil {
		return trackCLIError("route delete", err)
	}
	if !deleted {
		return trackCLIError("route delete", fmt.Errorf("route %s: %w", args[0], db.ErrNotFound))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted route %s.\n", args[0])
	return nil
}

func runRouteShow(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("route show", err)
	}
	defer s.Close()

	r, err := s.db.GetRouteConfig(args[0])
	if err != nil {
		return trackCLIError("route show", err)
	}
	if r == nil {
		return trackCLIError("route show", fmt.Errorf("route %s: %w", args[0], db.ErrNotFound))
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Name:        %s\n", r.Name)
	_, _ = fmt.Fprintf(out, "Route:       %s %s\n", r.Method, r.Path)
	_, _ = fmt.Fprintf(out, "Handler:     %s\n", r.Handler)
	_, _ = fmt.Fprintf(out, "Middleware:  %s\n", strings.Join(r.Middleware, ", "))
	_, _ = fmt.Fprintf(out, "Auth:        %t\n", r.AuthRequired)
	if r.Description != nil {
		_, _ = fmt.Fprintf(out, "Description: %s\n", *r.Description)
	}
	_, _ = fmt.Fprintf(out, "Updated:     %s\n", r.UpdatedAt)
	return nil
}

func routeRow(r models.RouteConfig) []string {
	auth := "no"
	if r.AuthRequired {
		auth = "yes"
	}
	return []string{r.ID, r.Name, r.Method, r.Path, r.Handler, strings.Join(r.Middleware, ", "), auth}
}
