package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/google/uuid"

	"github.com/jaminalder/tictactoe-timetravel/internal/domain"
	"github.com/jaminalder/tictactoe-timetravel/internal/entity"
)

type templates struct {
	page  *template.Template
	board *template.Template
}

func loadTemplates() *templates {
	page := template.Must(template.New("page").Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.board-row{display:flex}
.square{width:3em;height:3em;font-size:1.5em}
.win-sequence{background:#9f9}
</style>
</head><body><main>
<h1>Tic-Tac-Toe</h1>
<div hx-ext="sse" sse-connect="/events">
  <div sse-swap="game" hx-target="#game" hx-swap="outerHTML">{{template "game" .}}</div>
</div>
</main></body></html>`))
	template.Must(page.New("game").Parse(gameTemplate))
	board := template.Must(template.New("board_only").Parse(gameTemplate))
	return &templates{page: page, board: board}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

const gameTemplate = `
<div id="game" class="game">
  <div class="board">
    <div class="status">{{.Status}}</div>
    {{range .Rows}}
    <div class="board-row">
      {{range .}}
      <form hx-post="/play" hx-target="#game" hx-swap="outerHTML" method="post" action="/play">
        <input type="hidden" name="x" value="{{.X}}">
        <input type="hidden" name="y" value="{{.Y}}">
        <button type="submit" class="square{{if .Win}} win-sequence{{end}}">{{.Mark}}</button>
      </form>
      {{end}}
    </div>
    {{end}}
  </div>
  <div class="game-info">
    {{if .CanSort}}
    <form hx-post="/history/order" hx-target="#game" hx-swap="outerHTML" method="post" action="/history/order">
      <button type="submit">Sort history in {{if .Descending}}ascending{{else}}descending{{end}} order</button>
    </form>
    {{end}}
    <ol>
      {{range .Moves}}
      <li>{{if .Current}}{{.Label}}{{else}}
        <form hx-post="/history/{{.Index}}" hx-target="#game" hx-swap="outerHTML" method="post" action="/history/{{.Index}}">
          <button type="submit">{{.Label}}</button>
        </form>{{end}}
      </li>
      {{end}}
    </ol>
    <form hx-post="/restart" hx-target="#game" hx-swap="outerHTML" method="post" action="/restart">
      <button type="submit">New game</button>
    </form>
  </div>
</div>
`

type squareView struct {
	X, Y int
	Mark string
	Win  bool
}

type moveView struct {
	Index   int
	Label   string
	Current bool
}

type gameView struct {
	Status     string
	Rows       [][]squareView
	Moves      []moveView
	Descending bool
	CanSort    bool
}

// statusLine is the text above the board.
func statusLine(s domain.Snapshot) string {
	if o := s.Outcome(); o.Finished() {
		return o.String()
	}
	return "Next player: " + s.NextTurn().String()
}

// moveLabel names a history entry; current marks the entry on screen.
func moveLabel(e domain.Entry, current bool) string {
	c, ok := e.Game.LastMove()
	switch {
	case e.Index == 0 || !ok:
		if current {
			return "You are at game start"
		}
		return "Go to game start"
	case current:
		return fmt.Sprintf("You are at move #%d (%d, %d)", e.Index, c.X, c.Y)
	default:
		return fmt.Sprintf("Go to move #%d (%d, %d)", e.Index, c.X, c.Y)
	}
}

func newGameView(sess entity.Session) gameView {
	v := gameView{
		Status:     statusLine(sess.Current),
		Descending: sess.Descending,
		CanSort:    len(sess.History) > 1,
	}
	for y := 0; y < domain.Width; y++ {
		row := make([]squareView, 0, domain.Width)
		for x := 0; x < domain.Width; x++ {
			c := domain.Coordinates{X: x, Y: y}
			row = append(row, squareView{
				X:    x,
				Y:    y,
				Mark: sess.Current.CellAt(c).String(),
				Win:  sess.Current.InWinSequence(c),
			})
		}
		v.Rows = append(v.Rows, row)
	}
	currentIndex := domain.IndexOf(sess.Current)
	for _, e := range sess.History.Sorted(sess.Descending) {
		current := e.Index == currentIndex
		v.Moves = append(v.Moves, moveView{Index: e.Index, Label: moveLabel(e, current), Current: current})
	}
	return v
}

const sessionCookie = "session_id"

// sessionID returns the session id from the request cookie, or "" when absent.
func sessionID(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, perr := uuid.Parse(c.Value); perr == nil {
			return c.Value
		}
	}
	return ""
}

func setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
