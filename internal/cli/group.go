package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/dailysplit/internal/service"
)

func (a *app) groupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Create, select and manage groups",
	}
	cmd.AddCommand(
		a.groupCreateCommand(),
		a.groupListCommand(),
		a.groupSelectCommand(),
		a.groupMembersCommand(),
		a.groupRemoveMemberCommand(),
		a.groupCodeCommand(),
	)
	return cmd
}

func (a *app) groupCreateCommand() *cobra.Command {
	var req service.CreateGroupRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group you administer",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.authed(func(cmd *cobra.Command, _ []string) error {
		g, err := a.session.CreateGroup(cmd.Context(), req)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created group %q\n", g.Name)
		fmt.Fprintf(out, "Access code: %s\n", g.AccessCode)
		return nil
	})

	cmd.Flags().StringVar(&req.Name, "name", "", "group name")
	cmd.Flags().StringVar(&req.Description, "description", "", "optional description")
	return cmd
}

func (a *app) groupListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your groups",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.authed(func(cmd *cobra.Command, _ []string) error {
		groups, err := a.session.MyGroups()
		if err != nil {
			return err
		}

		var activeID string
		if g, err := a.session.ActiveGroup(); err == nil {
			activeID = g.ID
		}

		tw := newTable(cmd.OutOrStdout())
		row(tw, "", "ID", "NAME", "MEMBERS", "EXPENSES")
		for _, g := range groups {
			marker := ""
			if g.ID == activeID {
				marker = "*"
			}
			row(tw, marker, g.ID, g.Name, fmt.Sprint(len(g.Users)), fmt.Sprint(len(g.DailyExpenses)))
		}
		return tw.Flush()
	})
	return cmd
}

func (a *app) groupSelectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select GROUP_ID",
		Short: "Switch the active group",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.authed(func(cmd *cobra.Command, args []string) error {
		g, err := a.session.SelectGroup(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Active group: %s\n", g.Name)
		return nil
	})
	return cmd
}

func (a *app) groupMembersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "List members of the active group",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.authed(func(cmd *cobra.Command, _ []string) error {
		members, err := a.session.Members()
		if err != nil {
			return err
		}

		tw := newTable(cmd.OutOrStdout())
		row(tw, "ID", "NAME", "EMAIL", "ROLE", "JOINED")
		for _, m := range members {
			row(tw, m.ID, m.Name, m.Email, string(m.Role), m.JoinedAt.Format("2006-01-02"))
		}
		return tw.Flush()
	})
	return cmd
}

func (a *app) groupRemoveMemberCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-member USER_ID",
		Short: "Remove a member and their expenses (admin only)",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.authed(func(cmd *cobra.Command, args []string) error {
		if err := a.session.RemoveMember(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Member removed")
		return nil
	})
	return cmd
}

func (a *app) groupCodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "code",
		Short: "Show the active group's access code (admin only)",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.authed(func(cmd *cobra.Command, _ []string) error {
		code, err := a.session.AccessCode()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), code)
		return nil
	})
	return cmd
}
