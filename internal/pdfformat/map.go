package pdfformat

import "github.com/hpungsan/acta/internal/acta"

// Map translates a validated Acta into a Format. It never fails: every
// nested access is coalesced again even though Validate already defaulted it.
//
// Agenda points and resolutions are renumbered 1..N by position. Source
// point labels are only used as display fallbacks.
func Map(a *acta.Acta) *Format {
	if a == nil {
		a = &acta.Acta{}
	}
	meta := a.Metadata
	parts := a.Participants

	chair := coalesce(parts.Chair, a.Signatures.Chair)
	secretary := coalesce(parts.Secretary, a.Signatures.Secretary)
	empty := ""

	f := &Format{
		Language: acta.ParseLanguage(string(meta.Language)),
		Community: Community{
			Name:    meta.Community,
			Address: meta.Address,
			City:    meta.Location,
		},
		Header: Header{
			Date:      meta.Date,
			StartTime: meta.StartTime,
			Chair:     chair,
			Secretary: secretary,
		},
		Agenda:      make([]AgendaItem, 0, len(a.Agenda)),
		Attendees:   make([]Attendee, 0, len(parts.Attendees)+len(parts.Represented)),
		Resolutions: make([]Resolution, 0, len(a.Resolutions)),
		Funds:       []any{},
		Officers: Officers{
			Chair:          chair,
			ViceChair:      &empty,
			SecretaryAdmin: secretary,
		},
		Closing: Closing{
			EndTime: coalesce(a.Closing.Time, meta.EndTime),
		},
	}

	for i, p := range a.Agenda {
		f.Agenda = append(f.Agenda, AgendaItem{
			PointID: i + 1,
			Title:   coalesce(p.Description, p.Point),
		})
	}

	// Attendees first, then proxies, each in source order.
	for _, at := range parts.Attendees {
		rep := ""
		f.Attendees = append(f.Attendees, Attendee{
			Unit:           at.UnitOrCoefficient,
			Coefficient:    at.UnitOrCoefficient,
			Owner:          at.Name,
			Representative: &rep,
		})
	}
	for _, r := range parts.Represented {
		f.Attendees = append(f.Attendees, Attendee{
			Owner:          r.Name,
			Representative: r.RepresentedBy,
		})
	}

	for i, r := range a.Resolutions {
		decisions := []string{}
		if r.VoteResult != nil && *r.VoteResult != "" {
			decisions = append(decisions, *r.VoteResult)
		}
		f.Resolutions = append(f.Resolutions, Resolution{
			PointID:   i + 1,
			Summary:   r.Text,
			Decisions: decisions,
			Result:    r.VoteResult,
		})
	}

	return f
}

func coalesce(vals ...*string) *string {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
