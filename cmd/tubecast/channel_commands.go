package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tubecast/internal/config"
	"tubecast/internal/store"
)

var platformCaser = cases.Title(language.English)

// withStore opens the store directly, so channels can be managed without a
// running daemon. SQLite's WAL mode keeps this safe alongside the daemon.
func withStore(ctx *commandContext, fn func(cfg *config.Config, st *store.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	return fn(cfg, st)
}

func newChannelsCommand(ctx *commandContext) *cobra.Command {
	channelsCmd := &cobra.Command{
		Use:   "channels",
		Short: "Manage publishing channels",
	}

	channelsCmd.AddCommand(newChannelsListCommand(ctx))
	channelsCmd.AddCommand(newChannelsAddCommand(ctx))
	channelsCmd.AddCommand(newChannelsTemplateCommand(ctx))

	return channelsCmd
}

func newChannelsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(cfg *config.Config, st *store.Store) error {
				channels, err := st.ListActiveChannels(cmd.Context())
				if err != nil {
					return err
				}
				if len(channels) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No channels configured; add one with `tubecast channels add`")
					return nil
				}

				rows := make([][]string, 0, len(channels))
				for _, ch := range channels {
					rows = append(rows, []string{
						strconv.FormatInt(ch.ID, 10),
						ch.Name,
						platformCaser.String(ch.Platform),
						ch.NicheName(),
						yesNo(ch.RequireApproval),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Platform", "Niche", "Approval"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newChannelsAddCommand(ctx *commandContext) *cobra.Command {
	var platform string
	var niche string
	var nicheDescription string
	var requireApproval bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("channel name is required")
			}
			return withStore(ctx, func(cfg *config.Config, st *store.Store) error {
				n, err := st.EnsureNiche(cmd.Context(), niche, nicheDescription)
				if err != nil {
					return err
				}
				channel, err := st.CreateChannel(cmd.Context(), name, strings.ToLower(platform), n.ID, requireApproval)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created channel %d (%s on %s, niche %s)\n",
					channel.ID, channel.Name, channel.Platform, n.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "youtube", "Target platform (youtube, tiktok, ...)")
	cmd.Flags().StringVar(&niche, "niche", "General", "Content niche for the channel")
	cmd.Flags().StringVar(&nicheDescription, "niche-description", "", "Description for a newly created niche")
	cmd.Flags().BoolVar(&requireApproval, "require-approval", false, "Pause jobs for script review before rendering")
	return cmd
}

func newChannelsTemplateCommand(ctx *commandContext) *cobra.Command {
	var templateType string
	var templateFile string

	cmd := &cobra.Command{
		Use:   "set-template <niche-id>",
		Short: "Set a prompt template for a niche",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nicheID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid niche id %q", args[0])
			}
			data, err := os.ReadFile(templateFile)
			if err != nil {
				return fmt.Errorf("read template file: %w", err)
			}
			return withStore(ctx, func(cfg *config.Config, st *store.Store) error {
				if err := st.SetPromptTemplate(cmd.Context(), nicheID, templateType, string(data)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s template for niche %d\n", templateType, nicheID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&templateType, "type", "script", "Template type")
	cmd.Flags().StringVar(&templateFile, "file", "", "File containing the template text")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
