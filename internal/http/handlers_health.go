package httpx

import (
	"io"
	"net/http"
)

const healthResponse = `{"status":"ok","service":"parkeased"}`

// healthHandler answers readiness/liveness checks. It reports nothing about
// the database so a degraded Postgres never takes the process out of rotation.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}
