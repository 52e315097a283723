package handlers

import (
	"net/http"
)

// Root reports that the service is up; the browser client polls it.
func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"status":  "online",
		"message": "Jewelry AI Backend is running",
	})
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
