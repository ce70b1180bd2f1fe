package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
)

// MakeWebhook receives inbound Make.com/Zapier scenario calls. The payload
// is logged (truncated) and acknowledged; scenarios treat anything but
// {ok:true} as a delivery failure and retry.
func MakeWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1024))
		if err != nil {
			body = nil
		}
		log.Printf("Make webhook: %s", body)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}
}
