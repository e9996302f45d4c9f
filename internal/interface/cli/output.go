package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/careerhub/placement-hub/internal/application/query"
)

const (
	formatPretty = "pretty"
	formatJSON   = "json"
)

// printer renders results either as aligned tables or as indented JSON.
type printer struct {
	w    io.Writer
	json bool
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch strings.ToLower(format) {
	case formatPretty, "":
		return &printer{w: w}, nil
	case formatJSON:
		return &printer{w: w, json: true}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (expected pretty|json)", format)
	}
}

// emit writes v as JSON, or calls pretty with a tab-aligned writer.
func (p *printer) emit(v any, pretty func(w io.Writer)) error {
	if p.json {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(p.w, 0, 2, 2, ' ', 0)
	pretty(tw)
	return tw.Flush()
}

// message prints a one-line confirmation; JSON output wraps it with fields.
func (p *printer) message(text string, fields map[string]any) error {
	if p.json {
		out := map[string]any{"message": text}
		for k, v := range fields {
			out[k] = v
		}
		return p.emit(out, nil)
	}
	_, err := fmt.Fprintln(p.w, text)
	return err
}

func (p *printer) internships(list []query.InternshipDTO) error {
	return p.emit(list, func(w io.Writer) {
		if len(list) == 0 {
			fmt.Fprintln(w, "(no internships)")
			return
		}
		fmt.Fprintln(w, "ID\tTITLE\tCOMPANY\tLEVEL\tMAJOR\tWINDOW\tSTATUS\tVISIBLE\tSLOTS")
		for _, i := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s..%s\t%s\t%s\t%d/%d\n",
				i.ID, i.Title, i.CompanyName, i.Level, i.PreferredMajor,
				i.OpenDate, i.CloseDate, i.Status, yesNo(i.Visible),
				i.ConfirmedSlots, i.MaxSlots)
		}
	})
}

func (p *printer) applications(list []query.ApplicationDTO) error {
	return p.emit(list, func(w io.Writer) {
		if len(list) == 0 {
			fmt.Fprintln(w, "(no applications)")
			return
		}
		fmt.Fprintln(w, "ID\tSTUDENT\tINTERNSHIP\tTITLE\tAPPLIED\tSTATUS\tACCEPTED")
		for _, a := range list {
			title := "-"
			if a.Internship != nil {
				title = a.Internship.Title
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				a.ID, a.StudentID, a.InternshipID, title, a.AppliedOn, a.Status, yesNo(a.StudentAccepted))
		}
	})
}

func (p *printer) withdrawals(list []query.WithdrawalDTO) error {
	return p.emit(list, func(w io.Writer) {
		if len(list) == 0 {
			fmt.Fprintln(w, "(no withdrawal requests)")
			return
		}
		fmt.Fprintln(w, "ID\tAPPLICATION\tSTUDENT\tREQUESTED\tSTATUS\tREASON\tNOTE")
		for _, r := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.ApplicationID, r.RequestedBy, r.RequestedOn, r.Status, r.Reason, dash(r.StaffNote))
		}
	})
}

func (p *printer) reps(list []query.RepDTO) error {
	return p.emit(list, func(w io.Writer) {
		if len(list) == 0 {
			fmt.Fprintln(w, "(no representatives)")
			return
		}
		fmt.Fprintln(w, "EMAIL\tNAME\tCOMPANY\tDEPARTMENT\tPOSITION\tAPPROVED")
		for _, r := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.Name, r.CompanyName, r.Department, r.Position, yesNo(r.Approved))
		}
	})
}

func (p *printer) postings(res *query.CompanyPostingsResult) error {
	return p.emit(res, func(w io.Writer) {
		fmt.Fprintf(w, "%s: %d active posting(s)\n", res.CompanyName, res.ActivePostings)
		if len(res.Postings) == 0 {
			return
		}
		fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tVISIBLE\tSLOTS\tAPPLICATIONS")
		for _, s := range res.Postings {
			i := s.Internship
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%s\n",
				i.ID, i.Title, i.Status, yesNo(i.Visible), i.ConfirmedSlots, i.MaxSlots, countsString(s.Applications))
		}
	})
}

func countsString(counts map[string]int) string {
	if len(counts) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(counts))
	for _, status := range []string{"PENDING", "SUCCESSFUL", "UNSUCCESSFUL", "WITHDRAWN"} {
		if n := counts[status]; n > 0 {
			parts = append(parts, strings.ToLower(status)+"="+strconv.Itoa(n))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
