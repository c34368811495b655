package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/termin-notifier/internal/domain/availability"
	"github.com/BruksfildServices01/termin-notifier/internal/timezone"
)

const maxBodyBytes = 4 << 20

// ======================================================
// PAYLOAD
// ======================================================

type term struct {
	Term        string `json:"term"`
	IsAvailable bool   `json:"isAvailable"`
}

type slotsAvailability struct {
	Name      string          `json:"name"`
	Timeslots json.RawMessage `json:"timeslots"`
}

// ======================================================
// CLIENT
// ======================================================

type AvailabilityClient struct {
	baseURL string
	http    *http.Client
	loc     *time.Location
	log     *zap.Logger
}

var _ domain.AvailabilityClient = (*AvailabilityClient)(nil)

// NewAvailabilityClient reads naive remote terms in loc.
func NewAvailabilityClient(baseURL string, timeout time.Duration, loc *time.Location, log *zap.Logger) *AvailabilityClient {
	if loc == nil {
		loc = time.UTC
	}
	return &AvailabilityClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		loc:     loc,
		log:     log,
	}
}

func (c *AvailabilityClient) Fetch(ctx context.Context, doctorID uint) (*domain.Snapshot, error) {
	url := fmt.Sprintf("%s/%d/slots_availability", c.baseURL, doctorID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.FetchError{Kind: domain.FetchUnreachable, DoctorID: doctorID, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.FetchError{Kind: domain.FetchUnreachable, DoctorID: doctorID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &domain.FetchError{Kind: domain.FetchNotFound, DoctorID: doctorID, StatusCode: resp.StatusCode}
	}

	var payload slotsAvailability
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return nil, &domain.FetchError{
			Kind: domain.FetchUnreachable, DoctorID: doctorID, Err: fmt.Errorf("decode payload: %w", err),
		}
	}

	terms, err := flatten(payload.Timeslots)
	if err != nil {
		return nil, &domain.FetchError{
			Kind: domain.FetchUnreachable, DoctorID: doctorID, Err: fmt.Errorf("decode timeslots: %w", err),
		}
	}

	slots := make([]time.Time, 0, len(terms))
	for _, t := range terms {
		if !t.IsAvailable {
			continue
		}
		// one unreadable available term fails the whole snapshot
		at, err := timezone.ParseTerm(t.Term, c.loc)
		if err != nil {
			c.log.Warn("unreadable remote term",
				zap.Uint("doctor_id", doctorID),
				zap.String("term", t.Term),
				zap.Error(err),
			)
			return nil, &domain.FetchError{
				Kind: domain.FetchUnreachable, DoctorID: doctorID, Err: fmt.Errorf("parse term: %w", err),
			}
		}
		slots = append(slots, at)
	}

	return &domain.Snapshot{
		DoctorName: payload.Name,
		Slots:      domain.DedupeTimes(slots),
	}, nil
}

// flatten accepts the grouped form ({"<day>": [..]}) and a bare list.
// Group keys carry no meaning.
func flatten(raw json.RawMessage) ([]term, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var list []term
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var groups map[string][]term
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, err
	}

	var out []term
	for _, g := range groups {
		out = append(out, g...)
	}
	return out, nil
}
