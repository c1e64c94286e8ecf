// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vechain/stakepool/log"
)

// DefaultLogger is the logger addressed when the request names none.
const DefaultLogger = "main"

// LogLevels maps logger names to their adjustable levels.
type LogLevels map[string]*slog.LevelVar

type logLevelRequest struct {
	Level string `json:"level"`
}

type logLevelResponse struct {
	Logger       string `json:"logger"`
	CurrentLevel string `json:"currentLevel"`
}

type errorResponse struct {
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

func writeError(w http.ResponseWriter, errCode int, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errCode)
	json.NewEncoder(w).Encode(errorResponse{
		ErrorCode:    errCode,
		ErrorMessage: errMsg,
	})
}

func writeLevel(w http.ResponseWriter, name string, level *slog.LevelVar) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(logLevelResponse{
		Logger:       name,
		CurrentLevel: level.Level().String(),
	})
}

func (l LogLevels) lookup(r *http.Request) (string, *slog.LevelVar) {
	name := r.URL.Query().Get("logger")
	if name == "" {
		name = DefaultLogger
	}
	return name, l[name]
}

func getLogLevelHandler(levels LogLevels) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, level := levels.lookup(r)
		if level == nil {
			writeError(w, http.StatusNotFound, "Unknown logger")
			return
		}
		writeLevel(w, name, level)
	}
}

func postLogLevelHandler(levels LogLevels) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, level := levels.lookup(r)
		if level == nil {
			writeError(w, http.StatusNotFound, "Unknown logger")
			return
		}

		var req logLevelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		switch req.Level {
		case "debug":
			level.Set(log.LevelDebug)
		case "info":
			level.Set(log.LevelInfo)
		case "warn":
			level.Set(log.LevelWarn)
		case "error":
			level.Set(log.LevelError)
		case "trace":
			level.Set(log.LevelTrace)
		case "crit":
			level.Set(log.LevelCrit)
		default:
			writeError(w, http.StatusBadRequest, "Invalid verbosity level")
			return
		}
		writeLevel(w, name, level)
	}
}
