package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/dailysplit/internal/service"
)

func (a *app) registerCommand() *cobra.Command {
	var req service.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Sign up; the very first user becomes the admin",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, _ []string) error {
		user, err := a.session.Register(cmd.Context(), req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Registered %s <%s> as %s\n", user.Name, user.Email, user.Role)
		if g, err := a.session.ActiveGroup(); err == nil {
			fmt.Fprintf(out, "Joined group %q\n", g.Name)
		} else {
			fmt.Fprintln(out, "Create your group next: dailysplit group create --name NAME")
		}
		return nil
	})

	cmd.Flags().StringVar(&req.Name, "name", "", "your name")
	cmd.Flags().StringVar(&req.Email, "email", "", "your email")
	cmd.Flags().StringVar(&req.AccessCode, "code", "", "access code of the group to join")
	return cmd
}

func (a *app) loginCommand() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with the name and email you registered with",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, _ []string) error {
		user, err := a.session.Login(cmd.Context(), name, email)
		if err != nil {
			return err
		}
		g, err := a.session.ActiveGroup()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s) in %q\n", user.Name, user.Role, g.Name)
		return nil
	})

	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().StringVar(&email, "email", "", "your email")
	return cmd
}

func (a *app) logoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the current user",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, _ []string) error {
		if err := a.session.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	})
	return cmd
}

func (a *app) whoamiCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user and group",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.authed(func(cmd *cobra.Command, _ []string) error {
		user := a.session.CurrentUser()
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "%s <%s> (%s)\n", user.Name, user.Email, user.Role)
		if g, err := a.session.ActiveGroup(); err == nil {
			fmt.Fprintf(out, "Group: %s (%d members)\n", g.Name, len(g.Users))
		} else {
			fmt.Fprintln(out, "Group: none")
		}
		return nil
	})
	return cmd
}
