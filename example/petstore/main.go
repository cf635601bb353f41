// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/z5labs/openapidoc"
	"github.com/z5labs/openapidoc/exclude"
	"github.com/z5labs/openapidoc/route"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/openapi-go/openapi3"
)

type Pet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tag  string `json:"tag,omitempty"`
}

type NewPet struct {
	Name string `json:"name"`
	Tag  string `json:"tag,omitempty"`
}

func main() {
	cfg, err := openapidoc.LoadConfig()
	if err != nil {
		log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{}))
		log.Error("failed to load openapi config", slog.String("error", err.Error()))
		return
	}

	docs := openapidoc.New(
		cfg,
		openapidoc.Info(openapi3.Info{
			Title:   "Petstore API",
			Version: "v1.0.0",
		}),
		openapidoc.Tags(
			openapi3.Tag{Name: "pets"},
			openapi3.Tag{Name: "admin"},
		),
		openapidoc.Exclusion(&exclude.Policy{
			Tags: []string{"admin"},
		}),
	)

	docs.Register(route.WithHeaders(
		[]route.Param{
			{Name: "X-Request-ID"},
		},
		route.Route{
			Method:      http.MethodGet,
			Pattern:     "/pets",
			OperationID: "listPets",
			Summary:     "List all pets",
			Tags:        []string{"pets"},
			Responses: map[int]route.Body{
				http.StatusOK: {Value: []Pet{}},
			},
		},
		route.Route{
			Method:      http.MethodPost,
			Pattern:     "/pets",
			OperationID: "createPet",
			Summary:     "Create a pet",
			Tags:        []string{"pets"},
			Request:     &route.Body{Value: NewPet{}},
			Responses: map[int]route.Body{
				http.StatusCreated: {Value: Pet{}},
			},
		},
		route.Route{
			Method:      http.MethodGet,
			Pattern:     "/pets/:id",
			OperationID: "getPet",
			Summary:     "Get a pet by id",
			Tags:        []string{"pets"},
			Responses: map[int]route.Body{
				http.StatusOK: {Value: Pet{}},
			},
		},
		route.Route{
			Method:      http.MethodDelete,
			Pattern:     "/pets/:id",
			OperationID: "deletePet",
			Summary:     "Delete a pet",
			Tags:        []string{"admin"},
		},
	)...)

	m := chi.NewMux()
	m.Get("/pets", listPets)
	docs.Mount(m)

	http.ListenAndServe(":8080", m)
}

func listPets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.Encode([]Pet{
		{ID: "1", Name: "Odie", Tag: "dog"},
	})
}
