// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package view turns registry results into render-ready, three-state view models.
package view

import (
	"github.com/betcoin/pollbet/poll"
)

// State is the rendering state of a model.
type State string

const (
	StateLoading State = "loading"
	StateError   State = "error"
	StateReady   State = "ready"
)

// Failure describes why a model is in the error state.
type Failure struct {
	Kind    poll.Kind `json:"kind"`
	Message string    `json:"message"`
}

// Model is either Loading, Error(kind, message) or Ready(data).
type Model[T any] struct {
	State State    `json:"state"`
	Error *Failure `json:"error,omitempty"`
	Data  *T       `json:"data,omitempty"`
}

func Loading[T any]() Model[T] {
	return Model[T]{State: StateLoading}
}

func Error[T any](kind poll.Kind, message string) Model[T] {
	return Model[T]{State: StateError, Error: &Failure{Kind: kind, Message: message}}
}

func Ready[T any](data T) Model[T] {
	return Model[T]{State: StateReady, Data: &data}
}

// Failed builds the error model of err.
func Failed[T any](err error) Model[T] {
	return Error[T](poll.KindOf(err), err.Error())
}

func (m Model[T]) IsLoading() bool { return m.State == StateLoading }
func (m Model[T]) IsError() bool   { return m.State == StateError }
func (m Model[T]) IsReady() bool   { return m.State == StateReady }

// Kind returns the failure kind, KindUnknown unless the model is an error.
func (m Model[T]) Kind() poll.Kind {
	if m.Error == nil {
		return poll.KindUnknown
	}
	return m.Error.Kind
}

// fromResult maps a (data, err) pair of a registry call into a model.
func fromResult[S, T any](data S, err error, render func(S) T) Model[T] {
	if err != nil {
		return Failed[T](err)
	}
	return Ready(render(data))
}
