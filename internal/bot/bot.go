package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/zachmeador/pineneedle/internal/jobprocessor"
	"github.com/zachmeador/pineneedle/pkg/types"
)

// Bot is the Discord front end: drop a job posting in a channel, get a
// tailored resume PDF back.
type Bot struct {
	session *discordgo.Session
	svc     *jobprocessor.Service
}

func New(token string, svc *jobprocessor.Service) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	bot := &Bot{
		session: session,
		svc:     svc,
	}
	session.AddHandler(bot.onMessageCreate)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent
	return bot, nil
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening Discord session: %w", err)
	}
	slog.Info("Bot is running...")
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// onMessageCreate picks up postings two ways: an .html or .txt attachment,
// or a message body long enough to plausibly be pasted posting text.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}
	slog.Info("Received message", "author", m.Author.Username, "attachments", len(m.Attachments))

	for _, att := range m.Attachments {
		ext := filepath.Ext(att.Filename)
		if ext == ".html" || ext == ".txt" {
			go b.processAttachment(s, m, att.URL)
			return
		}
	}

	if len(strings.TrimSpace(m.Content)) > 200 {
		go b.processPosting(s, m, m.Content)
	}
}

func (b *Bot) processAttachment(s *discordgo.Session, m *discordgo.MessageCreate, url string) {
	raw, err := downloadText(url)
	if err != nil {
		b.handleError(s, m, err)
		return
	}
	b.processPosting(s, m, raw)
}

// processPosting runs the full pipeline: ingest, generate, export, reply
// with the PDF.
func (b *Bot) processPosting(s *discordgo.Session, m *discordgo.MessageCreate, raw string) {
	slog.Info("Processing job posting", "content_length", len(raw))
	s.MessageReactionAdd(m.ChannelID, m.ID, "⏳")

	ctx := context.Background()
	posting, err := b.svc.IngestPosting(ctx, raw, nil)
	if err != nil {
		b.handleError(s, m, err)
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Parsed **%s** at **%s** (id `%s`), generating resume...",
		posting.Title, posting.Company, posting.ID))

	if _, _, err := b.svc.GenerateResume(ctx, types.GenerationRequest{JobPostingID: posting.ID}, ""); err != nil {
		b.handleError(s, m, err)
		return
	}

	result, err := b.svc.ExportPDF(ctx, posting.ID, "", "professional", false)
	if err != nil {
		b.handleError(s, m, err)
		return
	}

	pdfFile, err := os.Open(result.Path)
	if err != nil {
		b.handleError(s, m, fmt.Errorf("failed to open PDF file: %w", err))
		return
	}
	defer pdfFile.Close()

	if _, err := s.ChannelFileSend(m.ChannelID, filepath.Base(result.Path), pdfFile); err != nil {
		b.handleError(s, m, fmt.Errorf("failed to send PDF file: %w", err))
		return
	}

	s.MessageReactionsRemoveAll(m.ChannelID, m.ID)
	s.MessageReactionAdd(m.ChannelID, m.ID, "✅")
	slog.Info("Done processing!", "job_id", posting.ID)
}

func (b *Bot) handleError(s *discordgo.Session, m *discordgo.MessageCreate, err error) {
	slog.Error("Processing error", "error", err)
	s.MessageReactionRemove(m.ChannelID, m.ID, "⏳", s.State.User.ID)
	s.MessageReactionAdd(m.ChannelID, m.ID, "❌")
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Error: %v", err))
}

func downloadText(url string) (string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to download attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("received non-200 response code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read attachment: %w", err)
	}
	return string(data), nil
}
