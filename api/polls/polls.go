// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package polls

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/betcoin/pollbet/api/restutil"
	"github.com/betcoin/pollbet/view"
)

type Polls struct {
	adapter *view.Adapter
}

func New(adapter *view.Adapter) *Polls {
	return &Polls{adapter}
}

type lookupQuery struct {
	Refresh bool `schema:"refresh"`
}

// VoteRequest is the body of a vote submission.
type VoteRequest struct {
	Option *int `json:"option"`
}

func parseID(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 0, 64)
	if err != nil {
		return 0, restutil.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (p *Polls) handleGetPoll(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	var query lookupQuery
	if err := restutil.ParseQuery(req, &query); err != nil {
		return err
	}
	return restutil.WriteModel(w, p.adapter.Poll(req.Context(), id, query.Refresh), http.StatusOK)
}

func (p *Polls) handleCreatePoll(w http.ResponseWriter, req *http.Request) error {
	var form view.CreateForm
	if err := restutil.ParseJSON(req.Body, &form); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	return restutil.WriteModel(w, p.adapter.Create(req.Context(), form), http.StatusAccepted)
}

func (p *Polls) handleVote(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	var body VoteRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Option == nil {
		return restutil.BadRequest(errors.New("body: option required"))
	}
	ballot := view.Ballot{PollID: id}.Select(*body.Option)
	return restutil.WriteModel(w, p.adapter.Vote(req.Context(), ballot), http.StatusAccepted)
}

func (p *Polls) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /polls").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleCreatePoll))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /polls/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleGetPoll))
	sub.Path("/{id}/votes").
		Methods(http.MethodPost).
		Name("POST /polls/{id}/votes").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleVote))
}
