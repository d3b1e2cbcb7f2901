package controllers

import (
	"net/http"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/api/responses"
)

// Ping is a trivial liveness probe.
func Ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"message": "pong"})
	}
}
