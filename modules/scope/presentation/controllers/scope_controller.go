package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	directoryservices "github.com/salescope/salescope/modules/directory/services"
	"github.com/salescope/salescope/modules/scope/ranking"
	"github.com/salescope/salescope/modules/scope/services"
	"github.com/salescope/salescope/pkg/composables"
	"github.com/salescope/salescope/pkg/httpapi"
)

type ScopeController struct {
	scope *services.ScopeService
}

func NewScopeController(scope *services.ScopeService) *ScopeController {
	return &ScopeController{scope: scope}
}

func (c *ScopeController) Key() string {
	return "/scope"
}

func (c *ScopeController) Register(r *mux.Router) {
	router := r.PathPrefix("/scope").Subrouter()
	router.HandleFunc("/resolve", c.resolve).Methods(http.MethodGet)
	router.HandleFunc("/rank", c.rank).Methods(http.MethodGet)
}

type scopeResponse struct {
	Requester    uuid.UUID    `json:"requester"`
	Level        string       `json:"level"`
	VisibleIDs   []uuid.UUID  `json:"visibleIds"`
	Capabilities capabilities `json:"capabilities"`
}

type capabilities struct {
	Compensation          bool `json:"compensation"`
	IndividualPerformance bool `json:"individualPerformance"`
	TeamPerformance       bool `json:"teamPerformance"`
	CustomerData          bool `json:"customerData"`
}

func (c *ScopeController) resolve(w http.ResponseWriter, r *http.Request) {
	requester, err := composables.UseRequester(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "requesting employee not identified", nil)
		return
	}

	scope, err := c.scope.ResolveScope(r.Context(), requester, time.Now())
	if err != nil {
		writeResolveError(w, err)
		return
	}

	caps := scope.Capabilities()
	_ = httpapi.WriteJSON(w, http.StatusOK, scopeResponse{
		Requester:  scope.RequesterID(),
		Level:      scope.Level().String(),
		VisibleIDs: scope.VisibleIDs(),
		Capabilities: capabilities{
			Compensation:          caps.ViewCompensation,
			IndividualPerformance: caps.ViewIndividualPerformance,
			TeamPerformance:       caps.ViewTeamPerformance,
			CustomerData:          caps.ViewCustomerData,
		},
	})
}

type rankEntry struct {
	EmployeeID uuid.UUID `json:"employeeId"`
	Value      string    `json:"value,omitempty"`
	Rank       *int      `json:"rank,omitempty"`
	Status     string    `json:"status"`
}

type rankResponse struct {
	Metric    string      `json:"metric"`
	Period    string      `json:"period"`
	PeerGroup string      `json:"peerGroup"`
	Entries   []rankEntry `json:"entries"`
}

func (c *ScopeController) rank(w http.ResponseWriter, r *http.Request) {
	requester, err := composables.UseRequester(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "requesting employee not identified", nil)
		return
	}

	q := r.URL.Query()
	subject := requester
	if raw := q.Get("subject"); raw != "" {
		subject, err = uuid.Parse(raw)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_SUBJECT", "subject must be a UUID", nil)
			return
		}
	}

	metric := ranking.Metric(q.Get("metric"))
	if metric == "" {
		metric = ranking.MetricSalesAmount
	}
	period := q.Get("period")
	if period == "" {
		period = time.Now().Format("2006-01")
	}
	group := ranking.PeerGroupTeam
	if q.Get("peerGroup") == "region" {
		group = ranking.PeerGroupRegion
	}

	scope, err := c.scope.ResolveScope(r.Context(), requester, time.Now())
	if err != nil {
		writeResolveError(w, err)
		return
	}

	list, err := c.scope.Rank(r.Context(), scope, subject, group, metric, period)
	if err != nil {
		_ = httpapi.WriteBaseError(w, http.StatusUnprocessableEntity, err)
		return
	}

	entries := make([]rankEntry, 0, len(list.Entries))
	for _, e := range list.Entries {
		entry := rankEntry{EmployeeID: e.EmployeeID, Status: "not ranked"}
		if e.Ranked {
			rank := e.Rank
			entry.Rank = &rank
			entry.Value = e.Value.String()
			entry.Status = "ranked"
		}
		entries = append(entries, entry)
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, rankResponse{
		Metric:    string(list.Metric),
		Period:    list.Period,
		PeerGroup: list.PeerGroup.String(),
		Entries:   entries,
	})
}

func writeResolveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, directoryservices.ErrEmployeeUnknown), errors.Is(err, services.ErrRequesterUnknown):
		_ = httpapi.WriteBaseError(w, http.StatusNotFound, err)
	case errors.Is(err, services.ErrRequesterInactive):
		_ = httpapi.WriteBaseError(w, http.StatusForbidden, err)
	default:
		_ = httpapi.WriteBaseError(w, http.StatusInternalServerError, err)
	}
}
