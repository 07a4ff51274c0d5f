// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package actions

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/betcoin/pollbet/api/restutil"
	"github.com/betcoin/pollbet/view"
)

type Actions struct {
	adapter *view.Adapter
	maxWait time.Duration
}

// New creates the actions api. Reconcile waits are capped at maxWait.
func New(adapter *view.Adapter, maxWait time.Duration) *Actions {
	return &Actions{adapter, maxWait}
}

type reconcileQuery struct {
	TimeoutMs uint32 `schema:"timeoutMs"`
}

func (a *Actions) handleGetActions(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteModel(w, a.adapter.Actions(), http.StatusOK)
}

// handleGetAction answers the action state, waiting up to timeoutMs for its
// confirmation when given.
func (a *Actions) handleGetAction(w http.ResponseWriter, req *http.Request) error {
	id := mux.Vars(req)["id"]
	var query reconcileQuery
	if err := restutil.ParseQuery(req, &query); err != nil {
		return err
	}
	if query.TimeoutMs == 0 {
		return restutil.WriteModel(w, a.adapter.Action(id), http.StatusOK)
	}
	wait := time.Duration(query.TimeoutMs) * time.Millisecond
	if a.maxWait > 0 && wait > a.maxWait {
		wait = a.maxWait
	}
	return restutil.WriteModel(w, a.adapter.Reconcile(req.Context(), id, wait), http.StatusOK)
}

func (a *Actions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /actions").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetActions))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /actions/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetAction))
}
