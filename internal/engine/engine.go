// Package engine routes inbound client commands to the session,
// roster, and history, and publishes the resulting state to connected
// clients.
//
// Every command, including transport disconnects and the optional
// poll auto-close, funnels through one goroutine draining a single
// channel, so no two commands ever interleave their effects on the
// session or roster.
package engine

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"livepoll/internal/db"
	"livepoll/internal/history"
	"livepoll/internal/metrics"
	"livepoll/internal/poll"
	"livepoll/internal/roster"
	"livepoll/internal/session"
	"livepoll/internal/validate"
	"livepoll/internal/wshub"
)

// Outbound event names.
const (
	EvtPollStarted        = "poll_started"
	EvtPollUpdate         = "poll_update"
	EvtPollResults        = "poll_results"
	EvtParticipantsUpdate = "participants_update"
	EvtChatMessage        = "chat_message"
	EvtHistoryData        = "history_data"
	EvtKicked             = "kicked"
)

// Internal pseudo-events; never accepted from clients.
const (
	eventDisconnect = "_disconnect"
	eventAutoClose  = "_auto_close"
)

const commandBuffer = 256

// Command is one unit of work for the engine loop.
type Command struct {
	ConnID  string
	Event   string
	Payload json.RawMessage
	gen     int // poll generation, used by auto-close
}

// ChatMessage is the payload relayed to all clients for send_chat.
type ChatMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type Engine struct {
	hub     *wshub.Hub
	session *session.Session
	roster  *roster.Store
	history *history.Store
	archive *db.DB // nil if no database configured

	autoClose  bool
	closeTimer *time.Timer
	pollGen    int

	commands chan Command
}

func New(hub *wshub.Hub, sess *session.Session, rost *roster.Store, hist *history.Store, archive *db.DB, autoClose bool) *Engine {
	return &Engine{
		hub:       hub,
		session:   sess,
		roster:    rost,
		history:   hist,
		archive:   archive,
		autoClose: autoClose,
		commands:  make(chan Command, commandBuffer),
	}
}

// Run drains the command channel until the context ends. Start it in
// exactly one goroutine.
func (e *Engine) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-e.commands:
			e.handle(cmd)
		}
	}
}

// Dispatch enqueues a client command. Unknown event names are dropped
// before they reach the loop.
func (e *Engine) Dispatch(connID, event string, payload json.RawMessage) {
	if !validate.IsInboundEvent(event) {
		metrics.CommandsDropped.WithLabelValues("unknown_event").Inc()
		return
	}
	metrics.CommandsTotal.WithLabelValues(event).Inc()
	e.commands <- Command{ConnID: connID, Event: event, Payload: payload}
}

// Disconnect enqueues the transport-level disconnect of a connection.
func (e *Engine) Disconnect(connID string) {
	e.commands <- Command{ConnID: connID, Event: eventDisconnect}
}

func (e *Engine) handle(cmd Command) {
	switch cmd.Event {
	case "student_join":
		e.handleJoin(cmd)
	case "teacher_create_poll":
		e.handleCreatePoll(cmd)
	case "submit_answer":
		e.handleSubmitAnswer(cmd)
	case "teacher_show_results":
		e.handleShowResults()
	case "teacher_request_history":
		e.hub.SendTo(cmd.ConnID, EvtHistoryData, e.history.List())
	case "send_chat":
		e.handleChat(cmd)
	case "kick_student":
		e.handleKick(cmd)
	case eventDisconnect:
		e.roster.Remove(cmd.ConnID)
		e.hub.BroadcastAll(EvtParticipantsUpdate, e.roster.ListNames())
	case eventAutoClose:
		// A timer from a superseded poll must not close the
		// current one.
		if cmd.gen != e.pollGen {
			return
		}
		log.Printf("[Engine] Poll timer elapsed, closing automatically\n")
		e.handleShowResults()
	}
}

func (e *Engine) handleJoin(cmd Command) {
	var name string
	if err := json.Unmarshal(cmd.Payload, &name); err != nil {
		metrics.CommandsDropped.WithLabelValues("bad_payload").Inc()
		return
	}
	name, err := validate.Name(name)
	if err != nil {
		metrics.CommandsDropped.WithLabelValues("bad_name").Inc()
		return
	}

	e.roster.Register(cmd.ConnID, name)
	e.hub.BroadcastAll(EvtParticipantsUpdate, e.roster.ListNames())
}

func (e *Engine) handleCreatePoll(cmd Command) {
	var p poll.Poll
	if err := json.Unmarshal(cmd.Payload, &p); err != nil {
		metrics.CommandsDropped.WithLabelValues("bad_payload").Inc()
		return
	}
	if err := p.Validate(); err != nil {
		log.Printf("[Engine] Rejected poll: %v\n", err)
		metrics.CommandsDropped.WithLabelValues("invalid_poll").Inc()
		return
	}

	e.stopCloseTimer()
	e.pollGen++
	e.session.CreatePoll(p)
	metrics.PollsCreated.Inc()

	if e.autoClose && p.TimerSeconds > 0 {
		gen := e.pollGen
		e.closeTimer = time.AfterFunc(time.Duration(p.TimerSeconds)*time.Second, func() {
			e.commands <- Command{Event: eventAutoClose, gen: gen}
		})
	}

	e.hub.BroadcastAll(EvtPollStarted, p)
}

func (e *Engine) handleSubmitAnswer(cmd Command) {
	name, joined := e.roster.Name(cmd.ConnID)
	if !joined {
		metrics.CommandsDropped.WithLabelValues("not_joined").Inc()
		return
	}

	// The option arrives as a 1-based index in text form.
	var selector string
	if err := json.Unmarshal(cmd.Payload, &selector); err != nil {
		metrics.CommandsDropped.WithLabelValues("bad_payload").Inc()
		return
	}
	option, err := strconv.Atoi(selector)
	if err != nil {
		metrics.CommandsDropped.WithLabelValues("bad_option").Inc()
		return
	}

	counts, ok := e.session.SubmitAnswer(name, option)
	if !ok {
		metrics.CommandsDropped.WithLabelValues("rejected_answer").Inc()
		return
	}
	metrics.AnswersRecorded.Inc()
	e.hub.BroadcastAll(EvtPollUpdate, counts)
}

func (e *Engine) handleShowResults() {
	counts, snap, ok := e.session.ShowResults()
	if !ok {
		metrics.CommandsDropped.WithLabelValues("no_poll").Inc()
		return
	}

	if snap != nil {
		e.stopCloseTimer()
		metrics.PollsClosed.Inc()
		if e.archive != nil {
			record := *snap
			go func() {
				if err := e.archive.ArchivePoll(record); err != nil {
					log.Printf("[Engine] ArchivePoll error: %v\n", err)
				}
			}()
		}
	}

	e.hub.BroadcastAll(EvtPollResults, counts)
}

func (e *Engine) handleChat(cmd Command) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
		metrics.CommandsDropped.WithLabelValues("bad_payload").Inc()
		return
	}
	text, err := validate.ChatText(payload.Text)
	if err != nil {
		metrics.CommandsDropped.WithLabelValues("bad_chat").Inc()
		return
	}

	sender, ok := e.roster.Name(cmd.ConnID)
	if !ok {
		sender = "Anonymous"
	}
	e.hub.BroadcastAll(EvtChatMessage, ChatMessage{Sender: sender, Text: text})
}

func (e *Engine) handleKick(cmd Command) {
	var name string
	if err := json.Unmarshal(cmd.Payload, &name); err != nil {
		metrics.CommandsDropped.WithLabelValues("bad_payload").Inc()
		return
	}

	// First name match only; duplicate names are ambiguous here.
	connID, found := e.roster.FindByName(name)
	if !found {
		metrics.CommandsDropped.WithLabelValues("kick_miss").Inc()
		return
	}

	// Unregister closes the send channel; the write pump drains the
	// kicked notice and then closes the connection.
	e.hub.SendTo(connID, EvtKicked, nil)
	e.hub.Unregister(connID)
	e.roster.Remove(connID)
	e.hub.BroadcastAll(EvtParticipantsUpdate, e.roster.ListNames())
}

func (e *Engine) stopCloseTimer() {
	if e.closeTimer != nil {
		e.closeTimer.Stop()
		e.closeTimer = nil
	}
}
