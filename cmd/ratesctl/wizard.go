package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/LucianBellevue/ba-website/internal/core"
	"github.com/LucianBellevue/ba-website/internal/leadclient"
	"github.com/LucianBellevue/ba-website/internal/platform/ids"
	"github.com/LucianBellevue/ba-website/internal/tui"
	"github.com/LucianBellevue/ba-website/internal/wizard"
)

func newWizardCmd(root *rootOptions) *cobra.Command {
	var product, api string
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Run the calculator wizard in the terminal",
		Long: "Walk through the calculator one step at a time. With --api the contact details are " +
			"submitted to POST /api/lead on that server; without it nothing leaves this machine.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := root.estimator()
			if err != nil {
				return err
			}
			var sub wizard.LeadSubmitter = offlineSubmitter{clock: time.Now}
			if api != "" {
				sub = leadclient.New(api, nil)
			}
			w, err := wizard.New(product, e, sub, "ratesctl")
			if err != nil {
				return err
			}
			return tui.Run(w)
		},
	}
	cmd.Flags().StringVar(&product, "product", "final_expense", "final_expense, term_life or whole_life")
	cmd.Flags().StringVar(&api, "api", "", "base URL of the API, e.g. http://localhost:8080")
	return cmd
}

// offlineSubmitter accepts every lead without sending it anywhere.
type offlineSubmitter struct {
	clock func() time.Time
}

func (s offlineSubmitter) SubmitLead(context.Context, core.LeadRequest) (core.LeadResponse, error) {
	return core.LeadResponse{OK: true, LeadID: ids.NewLeadID(s.clock()), Message: "Saved locally; not submitted."}, nil
}
