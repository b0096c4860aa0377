package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/diegoclair/jadwal-bot/internal/domain"
	"github.com/diegoclair/jadwal-bot/internal/domain/contract"
	"github.com/diegoclair/jadwal-bot/internal/domain/entity"
	"github.com/diegoclair/jadwal-bot/internal/domain/service"
	slackcmd "github.com/diegoclair/jadwal-bot/internal/domain/slack"
	"github.com/diegoclair/jadwal-bot/pkg/logger"
	"github.com/slack-go/slack"
)

type SlackHandler struct {
	jadwalService contract.JadwalService
	signingSecret string
	log           logger.Logger
}

func New(jadwalService contract.JadwalService, signingSecret string, log logger.Logger) *SlackHandler {
	return &SlackHandler{
		jadwalService: jadwalService,
		signingSecret: signingSecret,
		log:           log,
	}
}

func (h *SlackHandler) HandleSlashCommand(w http.ResponseWriter, r *http.Request) {
	// Verify request from Slack
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	verifier, err := slack.NewSecretsVerifier(r.Header, h.signingSecret)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if _, err := verifier.Write(body); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := verifier.Ensure(); err != nil {
		h.log.Warn(r.Context(), "rejected slash command with a bad signature", logger.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	s, err := slack.SlashCommandParse(r)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	cmd, err := slackcmd.ParseCommand(s.Text)
	if err != nil {
		h.respond(w, h.createErrorResponse(err.Error()+". Try `/jadwal help`."))
		return
	}

	h.respond(w, h.handleCommand(r, cmd, &s))
}

// HandleHealth answers liveness probes.
func (h *SlackHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *SlackHandler) HandlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong"))
}

func (h *SlackHandler) handleCommand(r *http.Request, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	switch cmd.Type {
	case slackcmd.CmdAdd:
		return h.handleAddEvent(r, cmd, slashCmd)
	case slackcmd.CmdList:
		return h.handleListEvents(r, cmd, slashCmd)
	case slackcmd.CmdHelp:
		return h.handleHelp()
	default:
		return h.createErrorResponse("Unknown command")
	}
}

func (h *SlackHandler) handleAddEvent(r *http.Request, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	input, err := slackcmd.ParseAddArgs(cmd.Args)
	if err != nil {
		return h.createErrorResponse(userMessage(err))
	}

	event, err := h.jadwalService.AddEvent(r.Context(), slashCmd.ChannelID, input)
	if err != nil {
		return h.serviceError(r, "failed to add event", slashCmd, err)
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text: fmt.Sprintf("✅ Got it! *%s* for *%s* is scheduled at *%s* on %s.",
			event.Activity, event.Person, event.Time, service.FormatDate(event.Date)),
	}
}

func (h *SlackHandler) handleListEvents(r *http.Request, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	date, person := slackcmd.ParseListArgs(cmd.Args)

	day, err := h.jadwalService.ListEvents(r.Context(), slashCmd.ChannelID, date, person)
	if err != nil {
		return h.serviceError(r, "failed to list events", slashCmd, err)
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         formatDaySchedule(day),
	}
}

func formatDaySchedule(day *entity.DaySchedule) string {
	date := service.FormatDate(day.Date)

	if day.IsEmpty() {
		if day.Person != "" {
			return fmt.Sprintf("Nothing scheduled for %s on %s. 🎉", day.Person, date)
		}
		return fmt.Sprintf("Nothing scheduled on %s. 🎉", date)
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("*Schedule for %s:*\n", date))
	for _, group := range day.Groups {
		text.WriteString(fmt.Sprintf("\n*%s*\n%s\n", group.Person, service.ScheduleLines(group.Events)))
	}
	return strings.TrimRight(text.String(), "\n")
}

func (h *SlackHandler) handleHelp() *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         slackcmd.GetHelpText(),
	}
}

func (h *SlackHandler) serviceError(r *http.Request, msg string, slashCmd *slack.SlashCommand, err error) *slack.Msg {
	switch {
	case errors.Is(err, domain.ErrTenantNotFound):
		return h.createErrorResponse("This channel is not registered for schedules yet. Ask an admin to add it.")
	case errors.Is(err, domain.ErrInvalidInput):
		return h.createErrorResponse(userMessage(err))
	}

	h.log.Error(r.Context(), msg, logger.String("channel_id", slashCmd.ChannelID), logger.Err(err))
	return h.createErrorResponse("Something went wrong, please try again in a moment")
}

// userMessage drops the sentinel prefix from an invalid input error.
func userMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": ")
	if msg == "" {
		return err.Error()
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}

func (h *SlackHandler) createErrorResponse(message string) *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         fmt.Sprintf("❌ %s", message),
	}
}

func (h *SlackHandler) respond(w http.ResponseWriter, msg *slack.Msg) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(msg)
}
