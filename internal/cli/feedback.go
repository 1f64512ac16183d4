package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/dailysplit/internal/models"
)

func (a *app) feedbackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Leave and read feedback",
	}

	var rating int
	submit := &cobra.Command{
		Use:   "submit MESSAGE",
		Short: "Leave a note with a 1-5 rating",
		Args:  cobra.MinimumNArgs(1),
	}
	submit.RunE = a.authed(func(cmd *cobra.Command, args []string) error {
		fb, err := a.session.SubmitFeedback(cmd.Context(), strings.Join(args, " "), rating)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Thanks, %s!\n", fb.UserName)
		return nil
	})
	submit.Flags().IntVarP(&rating, "rating", "r", models.MaxRating, "rating from 1 to 5")

	list := &cobra.Command{
		Use:   "list",
		Short: "Show all feedback",
		Args:  cobra.NoArgs,
	}
	list.RunE = a.run(func(cmd *cobra.Command, _ []string) error {
		tw := newTable(cmd.OutOrStdout())
		row(tw, "DATE", "FROM", "RATING", "MESSAGE")
		for _, fb := range a.session.Feedbacks() {
			row(tw, fb.CreatedAt.Format("2006-01-02"), fb.UserName, strings.Repeat("*", fb.Rating), fb.Message)
		}
		return tw.Flush()
	})

	cmd.AddCommand(submit, list)
	return cmd
}

func (a *app) themeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Show or set the display theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(models.ThemeDark), string(models.ThemeLight)},
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if err := a.session.SetTheme(cmd.Context(), models.Theme(args[0])); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", a.session.Theme())
		return nil
	})
	return cmd
}

const welcome = `Welcome to dailysplit!

  1. The first person registers and creates the group:
       dailysplit register --name NAME --email EMAIL
       dailysplit group create --name "Dorm 4B"
  2. Everyone else joins with the group's access code:
       dailysplit register --name NAME --email EMAIL --code CODE
  3. Record what you pay for every day:
       dailysplit expense add 45000 -d "Plov" -c food
  4. On Sunday, settle up:
       dailysplit settle --this-week
       dailysplit report
`

func (a *app) startCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Show the getting-started guide and where you are",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()

		if !a.session.HasOnboarded() {
			fmt.Fprint(out, welcome)
			if err := a.session.CompleteOnboarding(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}

		user := a.session.CurrentUser()
		switch {
		case user == nil && a.session.GroupCount() == 0:
			fmt.Fprintln(out, "No groups yet. Register to become the admin.")
		case user == nil:
			fmt.Fprintln(out, "Not logged in. Register with an access code or log in.")
		default:
			fmt.Fprintf(out, "Logged in as %s (%s)\n", user.Name, user.Role)
			if g, err := a.session.ActiveGroup(); err == nil {
				fmt.Fprintf(out, "Active group: %s\n", g.Name)
			} else {
				fmt.Fprintln(out, "No active group. Create one or select one.")
			}
			if a.session.IsSettlementDay() {
				fmt.Fprintln(out, "Today is settlement day: run dailysplit settle --this-week")
			}
		}
		return nil
	})
	return cmd
}
