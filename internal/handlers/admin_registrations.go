package handlers

import (
	"bytes"
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/conference-registration-api/internal/auth"
	"github.com/gdg-garage/conference-registration-api/internal/reference"
	"github.com/gdg-garage/conference-registration-api/internal/report"
)

type ListRegistrationsInput struct {
	auth.AuthInput
	Search     string `query:"q" doc:"Substring of attendee name or referrer email"`
	Region     string `query:"region" doc:"Region id, or a fallback region name"`
	MinistryID string `query:"ministry_id"`
	Sort       string `query:"sort" doc:"Column currently sorted on"`
	Direction  string `query:"direction" doc:"Direction of the current sort"`
	Toggle     string `query:"toggle" doc:"Column header clicked; flips or starts the sort"`
}

func (in *ListRegistrationsInput) criteria() report.Criteria {
	c := report.Criteria{Search: in.Search, MinistryID: strings.TrimSpace(in.MinistryID)}
	region := strings.TrimSpace(in.Region)
	if reference.LooksCanonical(region) {
		c.RegionID = region
	} else {
		c.RegionName = region
	}
	return c
}

func (in *ListRegistrationsInput) sortState() report.SortState {
	var s report.SortState
	if in.Sort != "" {
		s = report.SortState{Column: in.Sort, Direction: report.Asc}
	}
	if in.Sort != "" && report.Direction(in.Direction) == report.Desc {
		s.Direction = report.Desc
	}
	if in.Toggle != "" {
		s = s.Toggle(in.Toggle)
	}
	return s
}

func (h *AdminHandler) rows(ctx context.Context, input *ListRegistrationsInput) ([]report.Row, report.SortState, error) {
	regs, err := h.store.ListRegistrations(ctx)
	if err != nil {
		return nil, report.SortState{}, err
	}
	rows := report.Filter(report.NewRows(regs), input.criteria())
	state := input.sortState()
	report.Sort(rows, state)
	return rows, state, nil
}

type ListRegistrationsOutput struct {
	Body struct {
		Columns       []string         `json:"columns"`
		Sort          report.SortState `json:"sort"`
		Total         int              `json:"total"`
		Registrations []report.Row     `json:"registrations"`
	}
}

func (h *AdminHandler) HandleListRegistrations(ctx context.Context, input *ListRegistrationsInput) (*ListRegistrationsOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}
	rows, state, err := h.rows(ctx, input)
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}

	resp := &ListRegistrationsOutput{}
	resp.Body.Columns = report.Header(rows)
	resp.Body.Sort = state
	resp.Body.Total = len(rows)
	resp.Body.Registrations = rows
	return resp, nil
}

type ExportOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

func (h *AdminHandler) HandleExportRegistrations(ctx context.Context, input *ListRegistrationsInput) (*ExportOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}
	rows, _, err := h.rows(ctx, input)
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, rows); err != nil {
		return nil, huma.Error500InternalServerError("Failed to write CSV", err)
	}
	return &ExportOutput{
		ContentType:        "text/csv; charset=utf-8",
		ContentDisposition: `attachment; filename="` + report.ExportFilename + `"`,
		Body:               buf.Bytes(),
	}, nil
}
