package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/propstream/backend/internal/api/middleware"
	"github.com/propstream/backend/internal/billing"
	"github.com/propstream/backend/internal/storage"
)

// PayfastITN receives PayFast's server-to-server payment notification.
// The payload is url-encoded form data signed with the merchant
// passphrase; anything that fails verification is dropped with a 400 so
// PayFast retries only transport failures, not forgeries.
func PayfastITN(signer *billing.Signer, subscriptions *storage.SubscriptionRepository, users *storage.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid form payload")
			return
		}

		payload := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			payload[k] = r.PostForm.Get(k)
		}

		if !signer.Verify(payload) {
			log.Printf("PayFast ITN rejected: bad signature (m_payment_id=%s)", payload["m_payment_id"])
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid signature")
			return
		}

		userID := payload["custom_str1"]
		if userID == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Missing user reference")
			return
		}

		ctx := r.Context()
		user, err := users.GetByID(ctx, userID)
		if err != nil || user == nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Unknown user reference")
			return
		}

		status := billing.StatusFromPayment(payload["payment_status"])

		var providerRef *string
		if ref := payload["pf_payment_id"]; ref != "" {
			providerRef = &ref
		}

		if err := subscriptions.Upsert(ctx, userID, "payfast", status, providerRef); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to record subscription")
			return
		}

		log.Printf("PayFast ITN processed: user=%s status=%s", userID, status)
		w.WriteHeader(http.StatusOK)
	}
}

type SubscriptionResponse struct {
	Status      string  `json:"status"`
	Provider    string  `json:"provider,omitempty"`
	ProviderRef *string `json:"provider_ref,omitempty"`
}

// MySubscription returns the authenticated user's billing state. Users
// who have never been billed get status "none".
func MySubscription(subscriptions *storage.SubscriptionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFrom(r.Context())
		if !ok {
			middleware.WriteError(w, http.StatusUnauthorized, middleware.ErrUnauthorized, "Authentication required")
			return
		}

		sub, err := subscriptions.GetByUser(r.Context(), identity.UserID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query subscription")
			return
		}

		resp := SubscriptionResponse{Status: "none"}
		if sub != nil {
			resp = SubscriptionResponse{
				Status:      sub.Status,
				Provider:    sub.Provider,
				ProviderRef: sub.ProviderRef,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
