package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"jobsift-engine/internal/config"
	"jobsift-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setIMAPPasswordReq struct {
	Password string `json:"password"`
}

func (h SecretsHandler) SetIMAPPassword(w http.ResponseWriter, r *http.Request) {
	var req setIMAPPasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	if err := secrets.Set(secrets.IMAPKeyringAccount(cfg), req.Password); err != nil {
		http.Error(w, "failed to store password: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setLLMKeyReq struct {
	Account string `json:"account"`
	Key     string `json:"key"`
}

// SetLLMKey stores one model-pool credential under its configured keyring
// account name.
func (h SecretsHandler) SetLLMKey(w http.ResponseWriter, r *http.Request) {
	var req setLLMKeyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := secrets.Set(req.Account, req.Key); err != nil {
		http.Error(w, "failed to store key: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
