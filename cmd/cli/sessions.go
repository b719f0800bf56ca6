package main

import (
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/adapter/http/middleware"
)

func newSessionsCmd(opts *options) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session"},
		Short:   "Allocation session operations",
	}

	sessionsCmd.AddCommand(
		newLoadCmd(opts),
		sessionCmd(opts, "show <session-id>", "Show a session", http.MethodGet, ""),
		sessionCmd(opts, "reload <session-id>", "Reload open items of a session", http.MethodPost, "/reload"),
		newDiscardCmd(opts),
		newEditCmd(opts),
		newAddCmd(opts),
		newRemoveCmd(opts),
	)

	return sessionsCmd
}

func newLoadCmd(opts *options) *cobra.Command {
	var (
		req       dto.LoadSessionRequest
		fixedRate string
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Open a session with the party's open items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fixedRate != "" {
				rate, err := decimal.NewFromString(fixedRate)
				if err != nil {
					return fmt.Errorf("invalid --fixed-rate: %w", err)
				}
				req.FixedRate = &rate
			}
			if err := req.Validate(); err != nil {
				return err
			}

			var session dto.SessionResponse
			raw, err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/sessions", &req, nil, &session)
			if err != nil {
				return err
			}
			return printSession(cmd.OutOrStdout(), opts, raw, &session)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.PartyID, "party", "", "Party ID")
	f.StringVar(&req.CompanyID, "company", "", "Company ID")
	f.StringVar(&req.JournalID, "journal", "", "Payment journal ID")
	f.StringVar(&req.PaymentMethodID, "method", "", "Payment method ID")
	f.StringVar(&req.SettlementCurrency, "currency", "", "Settlement currency")
	f.StringVar(&req.AsOf, "as-of", "", "Conversion date (YYYY-MM-DD)")
	f.StringVar(&req.RateMode, "rate-mode", "", "market or fixed")
	f.StringVar(&fixedRate, "fixed-rate", "", "Rate used when --rate-mode=fixed")
	f.StringVar(&req.Mode, "mode", "", "grouped or per_line")
	f.StringVar(&req.Memo, "memo", "", "Payment memo")
	for _, name := range []string{"party", "company", "journal", "currency"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func sessionCmd(opts *options, use, short, method, suffix string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var session dto.SessionResponse
			raw, err := newAPIClient(opts).do(cmd.Context(), method, "/api/v1/sessions/"+args[0]+suffix, nil, nil, &session)
			if err != nil {
				return err
			}
			return printSession(cmd.OutOrStdout(), opts, raw, &session)
		},
	}
}

func newDiscardCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "discard <session-id>",
		Short: "Discard a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := newAPIClient(opts).do(cmd.Context(), http.MethodDelete, "/api/v1/sessions/"+args[0], nil, nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s discarded\n", args[0])
			return nil
		},
	}
}

func newEditCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <session-id> <line-id> <amount>",
		Short: "Set the amount to allocate on a line",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}
			req := dto.EditLineRequest{Amount: &amount}
			if err := req.Validate(); err != nil {
				return err
			}

			var line dto.LineResponse
			path := "/api/v1/sessions/" + args[0] + "/lines/" + args[1]
			raw, err := newAPIClient(opts).do(cmd.Context(), http.MethodPut, path, &req, nil, &line)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), raw)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Line %s: requested %s of %s\n", line.ID, line.Requested, line.ResidualSettlement)
			return nil
		},
	}
}

func newAddCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <session-id> <entry-id>",
		Short: "Add an open entry to a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.AddEntryRequest{EntryID: args[1]}
			if err := req.Validate(); err != nil {
				return err
			}

			var session dto.SessionResponse
			raw, err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/sessions/"+args[0]+"/lines", &req, nil, &session)
			if err != nil {
				return err
			}
			return printSession(cmd.OutOrStdout(), opts, raw, &session)
		},
	}
}

func newRemoveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <session-id> <line-id>...",
		Short: "Remove lines from a session",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.RemoveLinesRequest{LineIDs: args[1:]}
			if err := req.Validate(); err != nil {
				return err
			}

			var session dto.SessionResponse
			raw, err := newAPIClient(opts).do(cmd.Context(), http.MethodDelete, "/api/v1/sessions/"+args[0]+"/lines", &req, nil, &session)
			if err != nil {
				return err
			}
			return printSession(cmd.OutOrStdout(), opts, raw, &session)
		},
	}
}

func newAllocateCmd(opts *options) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "allocate <session-id>",
		Short: "Settle a session and issue payment instructions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				key = uuid.NewString()
			}
			headers := map[string]string{middleware.IdempotencyKeyHeader: key}

			var result dto.AllocationResponse
			raw, err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/sessions/"+args[0]+"/allocate", nil, headers, &result)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), raw)
			}
			return printAllocation(cmd.OutOrStdout(), &result)
		},
	}

	cmd.Flags().StringVar(&key, "idempotency-key", "", "Idempotency key; a random one is used when empty")
	return cmd
}

func printSession(w io.Writer, opts *options, raw []byte, s *dto.SessionResponse) error {
	if opts.asJSON {
		return printJSON(w, raw)
	}

	fmt.Fprintf(w, "Session %s  party=%s  currency=%s  mode=%s  as_of=%s\n",
		s.ID, s.PartyID, s.SettlementCurrency, s.Mode, s.AsOf)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tDOCUMENT\tDATE\tKIND\tRESIDUAL\tREQUESTED")
	for _, l := range s.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, truncate(l.DocumentName, 24), l.DocumentDate, l.Kind, l.ResidualSettlement, l.Requested)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Total to pay: %s %s\n", s.TotalToPay, s.SettlementCurrency)
	return nil
}

func printAllocation(w io.Writer, r *dto.AllocationResponse) error {
	fmt.Fprintf(w, "Session %s allocated: %d settlements, %d payments\n", r.SessionID, len(r.Settlements), len(r.Payments))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, ps := range r.Settlements {
		fmt.Fprintf(tw, "settlement\t%s\t%s -> %s\t%s\n", ps.ID, ps.CreditEntryID, ps.DebitEntryID, ps.Amount)
	}
	for _, p := range r.Payments {
		fmt.Fprintf(tw, "payment\t%s\t%s\t%s %s\n", p.ID, p.Direction, p.Amount, p.Currency)
	}
	return tw.Flush()
}
