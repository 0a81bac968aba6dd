package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/vacation-calc/internal/planner"
	"github.com/username/vacation-calc/internal/vacation"
)

// textField accepts a JSON string or number
type textField string

func (f *textField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = textField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = textField(n.String())
	return nil
}

// holidayField accepts free text or an array of date strings
type holidayField string

func (f *holidayField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*f = holidayField(strings.Join(list, "\n"))
		return nil
	}
	var text textField
	if err := text.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = holidayField(text)
	return nil
}

type calculateRequest struct {
	Mode     string       `json:"mode"`
	Start    textField    `json:"start"`
	End      textField    `json:"end"`
	Duration textField    `json:"duration"`
	Holidays holidayField `json:"holidays"`
}

type calculateResponse struct {
	*planner.Plan
	Value string `json:"value"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		s.fail(w, r, http.StatusBadRequest, "BadRequest", fmt.Sprintf("invalid request body: %v", err))
		return
	}

	mode, err := vacation.ParseMode(req.Mode)
	if err != nil {
		s.failCalculation(w, r, err)
		return
	}

	plan, err := s.planner.Plan(r.Context(), planner.Request{
		Mode:     mode,
		Start:    string(req.Start),
		End:      string(req.End),
		Duration: string(req.Duration),
		Holidays: string(req.Holidays),
	})
	if err != nil {
		s.failCalculation(w, r, err)
		return
	}

	s.success(w, r, calculateResponse{Plan: plan, Value: plan.Value()})
}

func (s *Server) failCalculation(w http.ResponseWriter, r *http.Request, err error) {
	switch kind := vacation.KindOf(err); kind {
	case "":
		s.fail(w, r, http.StatusInternalServerError, "Internal", err.Error())
	case vacation.KindInvalidMode:
		s.fail(w, r, http.StatusBadRequest, string(kind), err.Error())
	default:
		s.fail(w, r, http.StatusUnprocessableEntity, string(kind), err.Error())
	}
}
