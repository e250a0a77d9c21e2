/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/friendsincode/bragi_schedule/internal/blockcfg"
	"github.com/friendsincode/bragi_schedule/internal/blocks"
	"github.com/friendsincode/bragi_schedule/internal/broadcastday"
	"github.com/friendsincode/bragi_schedule/internal/models"
)

const testBlockYAML = `
blocks:
  Test1: {type: test_a}
  Test2: {type: test_a}
  Test3: {type: test_b}
name_blocks:
  - {pattern: "start*", block: Test2}
  - {pattern: "exclude middle test"}
  - {pattern: "*middle*", block: Test1}
range_blocks:
  - {hour: 0, minute: 0, block: Test1}
  - {hour: 7, minute: 0}
  - {hour: 9, minute: 0, block: Test2}
  - {hour: 12, minute: 0, block: Test3}
  - {hour: 14, minute: 0}
  - {hour: 21, minute: 0, block: Test1}
`

func newTestAPI(t *testing.T) (*API, *gorm.DB, *broadcastday.Context) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Show{}, &models.Season{}, &models.Timeslot{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	cfg, err := blockcfg.Parse([]byte(testBlockYAML))
	if err != nil {
		t.Fatalf("parse block config: %v", err)
	}

	tc, err := broadcastday.New("Europe/London", 7)
	if err != nil {
		t.Fatalf("broadcastday.New: %v", err)
	}
	tc = tc.WithNow(func() time.Time {
		return time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)
	})

	resolver, err := blocks.NewResolver(cfg.NameRules, cfg.RangeEntries, tc)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	return New(db, cfg, resolver, zerolog.Nop()), db, tc
}

func newTestRouter(t *testing.T) (chi.Router, *gorm.DB, *broadcastday.Context) {
	t.Helper()
	a, db, tc := newTestAPI(t)
	r := chi.NewRouter()
	a.Routes(r)
	return r, db, tc
}

func doRequest(t *testing.T, r chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rec := doRequest(t, r, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestListBlocks(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rec := doRequest(t, r, http.MethodGet, "/blocks/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Blocks []BlockInfo `json:"blocks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(resp.Blocks))
	}
}

func TestResolveEndpoint(t *testing.T) {
	r, _, _ := newTestRouter(t)

	cases := []struct {
		body   string
		block  *string
		source string
	}{
		{`{"title":"start test","start":"2026-03-02T13:00:00Z"}`, strPtr("Test2"), "name"},
		{`{"title":"exclude middle test","start":"2026-03-02T13:00:00Z"}`, nil, "name"},
		{`{"title":"unmatched","start":"2026-03-02T13:00:00Z"}`, strPtr("Test3"), "range"},
		{`{"title":"unmatched","start":"2026-03-02T15:00:00Z"}`, nil, "range"},
	}

	for _, c := range cases {
		rec := doRequest(t, r, http.MethodPost, "/blocks/resolve", c.body)
		if rec.Code != http.StatusOK {
			t.Fatalf("resolve %s status = %d", c.body, rec.Code)
		}
		var resp ResolutionResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Source != c.source {
			t.Errorf("resolve %s source = %q, want %q", c.body, resp.Source, c.source)
		}
		if (resp.Block == nil) != (c.block == nil) {
			t.Errorf("resolve %s block = %v, want %v", c.body, resp.Block, c.block)
		} else if resp.Block != nil && *resp.Block != *c.block {
			t.Errorf("resolve %s block = %q, want %q", c.body, *resp.Block, *c.block)
		}
	}
}

func TestResolveRejectsBadBody(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rec := doRequest(t, r, http.MethodPost, "/blocks/resolve", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestTimetableEndpoint(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := doRequest(t, r, http.MethodGet, "/blocks/timetable?date=2026-03-02", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Date   string           `json:"date"`
		Events []TimetableEvent `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Date != "2026-03-02" {
		t.Fatalf("date = %q", resp.Date)
	}
	// One schedule day starting 07:00: the 07:00 boundary itself, 09:00,
	// 12:00, 14:00, 21:00, then 00:00 on the next calendar day; the window
	// closes before the next 07:00.
	if len(resp.Events) != 6 {
		t.Fatalf("events = %d, want 6", len(resp.Events))
	}
	if resp.Events[0].Block != nil {
		t.Fatalf("first event block = %q, want null", *resp.Events[0].Block)
	}
	if resp.Events[1].Block == nil || *resp.Events[1].Block != "Test2" {
		t.Fatalf("second event block = %v, want Test2", resp.Events[1].Block)
	}

	rec = doRequest(t, r, http.MethodGet, "/blocks/timetable?date=bogus", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date status = %d, want 400", rec.Code)
	}
}

func TestCurrentBlock(t *testing.T) {
	r, _, _ := newTestRouter(t)

	// Pinned clock: 13:00 UTC = 13:00 London, inside the Test3 window.
	rec := doRequest(t, r, http.MethodGet, "/blocks/current", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Block *string `json:"block"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Block == nil || *resp.Block != "Test3" {
		t.Fatalf("block = %v, want Test3", resp.Block)
	}
}

func TestTimeslotBlock(t *testing.T) {
	r, db, tc := newTestRouter(t)

	show := models.Show{ID: uuid.NewString(), Name: "Test Show", SubmittedAt: time.Now()}
	season := models.Season{ID: uuid.NewString(), ShowID: show.ID}
	slot := models.Timeslot{
		ID:       uuid.NewString(),
		SeasonID: season.ID,
		Title:    "unmatched title",
		Start:    time.Date(2026, 3, 2, 10, 0, 0, 0, tc.Location()),
		Duration: time.Hour,
	}
	for _, rec := range []any{&show, &season, &slot} {
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("create fixture: %v", err)
		}
	}

	rec := doRequest(t, r, http.MethodGet, "/timeslots/"+slot.ID+"/block", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Block  *string `json:"block"`
		Source string  `json:"source"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Block == nil || *resp.Block != "Test2" || resp.Source != "range" {
		t.Fatalf("resolution = %v/%s, want Test2/range", resp.Block, resp.Source)
	}

	rec = doRequest(t, r, http.MethodGet, "/timeslots/"+uuid.NewString()+"/block", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing timeslot status = %d, want 404", rec.Code)
	}
}

func TestShowEndpoints(t *testing.T) {
	r, db, tc := newTestRouter(t)

	show := models.Show{ID: uuid.NewString(), Name: "Catalogue Show", SubmittedAt: time.Now()}
	empty := models.Season{ID: uuid.NewString(), ShowID: show.ID}
	full := models.Season{ID: uuid.NewString(), ShowID: show.ID}
	slot := models.Timeslot{
		ID:       uuid.NewString(),
		SeasonID: full.ID,
		Title:    "Catalogue Show",
		Start:    time.Date(2026, 3, 2, 9, 0, 0, 0, tc.Location()),
		Duration: 2 * time.Hour,
	}
	for _, rec := range []any{&show, &empty, &full, &slot} {
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("create fixture: %v", err)
		}
	}

	rec := doRequest(t, r, http.MethodGet, "/shows/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var list struct {
		Shows []ShowSummary `json:"shows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Shows) != 1 || list.Shows[0].ScheduledSeasons != 1 {
		t.Fatalf("list = %+v, want one show with one scheduled season", list.Shows)
	}

	rec = doRequest(t, r, http.MethodGet, "/shows/"+show.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var detail struct {
		Seasons []SeasonDetail `json:"seasons"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if len(detail.Seasons) != 1 || len(detail.Seasons[0].Timeslots) != 1 {
		t.Fatalf("detail seasons = %+v, want the scheduled season only", detail.Seasons)
	}
}

func strPtr(s string) *string {
	return &s
}
