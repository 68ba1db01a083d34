// internal/httpserver/routes_roll.go
//
// HTTP routes for rolling dice.
//   - POST /roll {"expr","seed"}  → direct framing, errors come back as 422
//   - GET  /roll?expr=&seed=      → same, for links and curl
//   - POST /scan {"content"}      → triggered framing, 204 when nothing rolled
//
// An empty expression rolls a single d20.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/rollbot/internal/dice"
	"github.com/robalobadob/rollbot/internal/roller"
)

// maxBodyBytes bounds request bodies; expressions are short.
const maxBodyBytes = 16 << 10

// mountRoll registers the roll routes.
func (s *Server) mountRoll(r chi.Router) {
	r.Post("/roll", s.handleRollJSON)
	r.Get("/roll", s.handleRollQuery)
	r.Post("/scan", s.handleScan)
}

// rollReq is the body of POST /roll.
type rollReq struct {
	Expr string `json:"expr"`
	Seed string `json:"seed"`
}

// scanReq is the body of POST /scan.
type scanReq struct {
	Content string `json:"content"`
}

// trialRes describes one trial of a roll.
type trialRes struct {
	Text     string `json:"text"`
	Sum      int64  `json:"sum"`
	Selected bool   `json:"selected"`
}

// rollRes is returned by /roll and /scan.
type rollRes struct {
	Result    string     `json:"result"`
	Advantage int        `json:"advantage"`
	Selected  int        `json:"selected"`
	Trials    []trialRes `json:"trials"`
}

func newRollRes(res roller.Result) rollRes {
	out := rollRes{
		Result:    res.Text,
		Advantage: res.Roll.Advantage,
		Selected:  res.Outcome.Selected,
		Trials:    make([]trialRes, 0, len(res.Outcome.Trials)),
	}
	for i, tr := range res.Outcome.Trials {
		out.Trials = append(out.Trials, trialRes{
			Text:     tr.Text,
			Sum:      tr.Sum,
			Selected: i == res.Outcome.Selected,
		})
	}
	return out
}

func (s *Server) handleRollJSON(w http.ResponseWriter, r *http.Request) {
	var req rollReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.roll(w, r, roller.Request{Expr: req.Expr, Seed: req.Seed})
}

func (s *Server) handleRollQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.roll(w, r, roller.Request{Expr: q.Get("expr"), Seed: q.Get("seed")})
}

func (s *Server) roll(w http.ResponseWriter, r *http.Request, req roller.Request) {
	res, err := s.roller.Roll(r.Context(), req)
	if err != nil {
		hlog.FromRequest(r).Debug().
			Err(err).
			Bool("syntax", dice.IsSyntax(err)).
			Str("expr", req.Expr).
			Msg("roll rejected")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newRollRes(res))
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	res, ok := s.roller.Scan(r.Context(), req.Content)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, newRollRes(res))
}
