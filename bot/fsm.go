// Package bot holds the conversation state machine and the telegram
// transport adapter. One inbound event is processed to completion per
// user at a time, all internal errors are caught at the turn boundary:
// an operation may fail but the user's overall session never dies.
package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/niktanya/telegram-book-bot/llm"
	"github.com/niktanya/telegram-book-bot/log"
	"github.com/niktanya/telegram-book-bot/model"
	"github.com/niktanya/telegram-book-bot/recommend"
	"github.com/niktanya/telegram-book-bot/search"
	"github.com/niktanya/telegram-book-bot/store"
)

const (
	optSearchAgain = "Искать ещё"
	optYes         = "Да"
	optNo          = "Нет"

	msgNoAccess       = "У вас нет доступа к этому боту."
	msgCancelled      = "Операция отменена."
	msgSearchPrompt   = "Пожалуйста, введите описание, автора или название книги, которую хотите найти."
	msgRecommendAsk   = "Пожалуйста, введите название книги, на основе которой вы хотите получить рекомендации."
	msgSearching      = "Ищу книгу по вашему запросу... Это может занять некоторое время."
	msgRecommending   = "Ищу рекомендации на основе книги... Это может занять некоторое время."
	msgSearchRetry    = "К сожалению, ничего не нашлось. Попробуйте уточнить запрос."
	msgSearchGiveUp   = "К сожалению, не удалось найти книгу по вашему запросу."
	msgSearchFailed   = "Произошла ошибка при поиске книги. Пожалуйста, попробуйте снова позже."
	msgTryLater       = "Сервис рекомендаций временно недоступен. Пожалуйста, попробуйте позже."
	msgStoreFailed    = "Произошла ошибка при сохранении данных. Пожалуйста, попробуйте ещё раз."
	msgChoosePrompt   = "Выберите номер книги из списка."
	msgRatePrompt     = "Оцените книгу от 1 до 5."
	msgRatingSaved    = "Оценка сохранена!"
	msgWantRecs       = "Хотите получить рекомендации на основе этой книги?"
	msgNoRecs         = "К сожалению, не удалось найти рекомендации для указанной книги. Попробуйте ввести более известную книгу."
	msgDone           = "Хорошо! Если захотите ещё — команды /search, /rate и /recommend всегда доступны."
	msgIdleHint       = "Я понимаю только команды. Начните с /search, /rate или /recommend."
	msgUnknownCommand = "Неизвестная команда. Отправьте /help, чтобы увидеть список команд."
)

const msgHelp = `Я могу помочь вам найти книги и получить рекомендации.

Доступные команды:
/search - Найти книгу по описанию, автору или названию
/rate - Найти книгу и поставить ей оценку
/recommend - Получить рекомендации на основе книги
/myratings - Посмотреть свои оценки
/cancel - Отменить текущую операцию`

// Config is the state machine configuration, passed in explicitly so
// the machine carries no process-wide mutable state.
type Config struct {
	AllowedUsers []int64
	// EnforceAllowList turns the allow-list on, normally only in the
	// production environment.
	EnforceAllowList bool
	// RecommendCount is how many recommendations one request yields.
	RecommendCount int
	// SimilarityThreshold gates collaborative results.
	SimilarityThreshold float64
	// FuzzyThreshold gates fuzzy title resolution, 0-100.
	FuzzyThreshold int
	// SearchRetries is the failed-search budget before the dialog
	// returns to idle.
	SearchRetries int
}

// Machine sequences user turns across the search, selection, rating
// and recommendation phases. Exactly one state is active per user
// session at any time.
type Machine struct {
	cfg         Config
	store       *store.Store
	searcher    *search.Service
	recommender *recommend.Orchestrator
	sessions    *SessionStore
	sender      Sender
	allowList   map[int64]struct{}
}

func NewMachine(cfg Config, st *store.Store, searcher *search.Service, recommender *recommend.Orchestrator, sender Sender) *Machine {
	return &Machine{
		cfg:         cfg,
		store:       st,
		searcher:    searcher,
		recommender: recommender,
		sessions:    NewSessionStore(),
		sender:      sender,
		allowList:   buildAllowList(cfg.AllowedUsers),
	}
}

// Sessions exposes the session store for the admin API.
func (m *Machine) Sessions() *SessionStore {
	return m.sessions
}

// HandleEvent processes one inbound turn to completion. It never
// returns an error: failures are logged and reported to the user, and
// the session ends the turn in a consistent state.
func (m *Machine) HandleEvent(ctx context.Context, ev Event) {
	if !m.allowed(ev.UserID) {
		m.reply(ev.ChatID, msgNoAccess)
		return
	}

	session := m.sessions.Get(ev.UserID)
	session.ChatID = ev.ChatID

	if ev.Command != "" {
		m.handleCommand(ctx, session, ev)
		return
	}

	switch session.State {
	case model.StateIdle:
		m.reply(session.ChatID, msgIdleHint)
	case model.StateSearching:
		m.handleSearchInput(ctx, session, ev.Text)
	case model.StateChoosingBook:
		m.handleChoice(ctx, session, ev.Text)
	case model.StateRating:
		m.handleRating(ctx, session, ev.Text)
	case model.StateRecommendFromRate:
		m.handleYesNo(ctx, session, ev.Text)
	case model.StateRecommendDirect:
		m.handleRecommendDirect(ctx, session, ev.Text)
	default:
		log.Error("Session in unknown state", zap.Int64("user_id", session.UserID), zap.Stringer("state", session.State))
		session.Reset()
		m.reply(session.ChatID, msgIdleHint)
	}
}

func (m *Machine) handleCommand(ctx context.Context, session *model.Session, ev Event) {
	switch ev.Command {
	case "start":
		name := ev.FirstName
		if name == "" {
			name = "друг"
		}
		m.reply(session.ChatID, "Привет, "+name+"! Я бот для поиска и рекомендации книг.\n\n"+msgHelp)
	case "help":
		m.reply(session.ChatID, msgHelp)
	case "search":
		session.Reset()
		session.Mode = model.ModeSearch
		session.State = model.StateSearching
		m.reply(session.ChatID, msgSearchPrompt)
	case "rate":
		session.Reset()
		session.Mode = model.ModeRate
		session.State = model.StateSearching
		m.reply(session.ChatID, msgSearchPrompt)
	case "recommend":
		session.Reset()
		session.State = model.StateRecommendDirect
		m.reply(session.ChatID, msgRecommendAsk)
	case "myratings":
		m.handleMyRatings(session)
	case "cancel":
		session.Reset()
		m.send(Reply{ChatID: session.ChatID, Text: msgCancelled, RemoveOptions: true})
	default:
		m.reply(session.ChatID, msgUnknownCommand)
	}
}

// handleSearchInput runs one search attempt. No result burns one
// retry from the budget; a transport or service failure ends the
// dialog immediately.
func (m *Machine) handleSearchInput(ctx context.Context, session *model.Session, text string) {
	query := strings.TrimSpace(text)
	if query == "" {
		m.reply(session.ChatID, msgSearchPrompt)
		return
	}
	session.Query = query

	m.reply(session.ChatID, msgSearching)

	candidates, err := m.searcher.FindBooks(ctx, query, session.Excluded)
	if err != nil {
		log.Error("Book search failed",
			zap.Int64("user_id", session.UserID),
			zap.String("query", query),
			zap.Error(err))
		session.Reset()
		m.send(Reply{ChatID: session.ChatID, Text: m.failureMessage(err, msgSearchFailed), RemoveOptions: true})
		return
	}

	if len(candidates) == 0 {
		session.Retries++
		if session.Retries >= m.cfg.SearchRetries {
			session.Reset()
			m.send(Reply{ChatID: session.ChatID, Text: msgSearchGiveUp, RemoveOptions: true})
			return
		}
		m.reply(session.ChatID, msgSearchRetry)
		return
	}

	session.Candidates = candidates
	session.State = model.StateChoosingBook
	m.send(Reply{
		ChatID:  session.ChatID,
		Text:    FormatCandidates(candidates),
		Options: candidateOptions(len(candidates)),
	})
}

// handleChoice resolves the user's pick. An out-of-range or
// non-numeric answer re-prompts without changing state.
func (m *Machine) handleChoice(ctx context.Context, session *model.Session, text string) {
	choice := strings.TrimSpace(text)

	if strings.EqualFold(choice, optSearchAgain) {
		for _, c := range session.Candidates {
			session.Excluded[search.NormalizeTitle(c.TitleEN)] = struct{}{}
			session.Excluded[search.NormalizeTitle(c.TitleRU)] = struct{}{}
		}
		session.Candidates = nil
		session.State = model.StateSearching
		m.handleSearchInput(ctx, session, session.Query)
		return
	}

	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(session.Candidates) {
		m.send(Reply{
			ChatID:  session.ChatID,
			Text:    msgChoosePrompt,
			Options: candidateOptions(len(session.Candidates)),
		})
		return
	}

	book, err := m.selectBook(session.Candidates[idx-1])
	if err != nil {
		// Store failure: report, keep the session so the user can
		// retry the same selection.
		log.Error("Failed to persist selected book",
			zap.Int64("user_id", session.UserID),
			zap.Error(err))
		m.reply(session.ChatID, msgStoreFailed)
		return
	}
	session.Selected = book

	if session.Mode == model.ModeRate {
		session.State = model.StateRating
		m.send(Reply{
			ChatID:  session.ChatID,
			Text:    FormatBook(book) + "\n" + msgRatePrompt,
			Options: starOptions(),
		})
		return
	}

	session.State = model.StateRecommendFromRate
	m.send(Reply{
		ChatID:  session.ChatID,
		Text:    FormatBook(book) + "\n" + msgWantRecs,
		Options: []string{optYes, optNo},
	})
}

// selectBook persists the chosen candidate. Resolution precedes
// insertion: a candidate whose title already resolves in the catalog
// reuses the stored row, fuzzy lookups never create duplicates.
func (m *Machine) selectBook(candidate *model.Book) (*model.Book, error) {
	titles, ids, err := m.store.CatalogTitles()
	if err != nil {
		return nil, err
	}
	if res, ok := recommend.Resolve(candidate.TitleEN, titles, m.cfg.FuzzyThreshold); ok {
		id := ids[res.Index]
		book, err := m.store.GetBook(&model.FindBook{ID: &id})
		if err != nil {
			return nil, err
		}
		if book != nil {
			return book, nil
		}
	}
	return m.store.AddBook(candidate)
}

// handleRating persists a star value. Any other input re-prompts
// without a transition.
func (m *Machine) handleRating(ctx context.Context, session *model.Session, text string) {
	score, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || !model.ValidRating(score) {
		m.send(Reply{ChatID: session.ChatID, Text: msgRatePrompt, Options: starOptions()})
		return
	}

	if session.Selected == nil {
		// Should not happen, recover instead of panicking mid-dialog.
		log.Error("Rating without a selected book", zap.Int64("user_id", session.UserID))
		session.Reset()
		m.send(Reply{ChatID: session.ChatID, Text: msgIdleHint, RemoveOptions: true})
		return
	}

	if _, err := m.store.UpsertRating(session.Selected.ID, session.UserID, score); err != nil {
		log.Error("Failed to upsert rating",
			zap.Int64("user_id", session.UserID),
			zap.Int64("book_id", session.Selected.ID),
			zap.Error(err))
		m.reply(session.ChatID, msgStoreFailed)
		return
	}

	session.State = model.StateRecommendFromRate
	m.send(Reply{
		ChatID:  session.ChatID,
		Text:    msgRatingSaved + " " + msgWantRecs,
		Options: []string{optYes, optNo},
	})
}

// handleYesNo finishes the dialog, optionally with one orchestrator
// call. Anything that is not a recognizable yes/no re-prompts.
func (m *Machine) handleYesNo(ctx context.Context, session *model.Session, text string) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "да", "yes", "y":
		query := bookTitle(session.Selected)
		m.reply(session.ChatID, msgRecommending)
		result := m.runRecommend(ctx, query)
		session.Reset()
		m.send(Reply{ChatID: session.ChatID, Text: result, RemoveOptions: true})
	case "нет", "no", "n":
		session.Reset()
		m.send(Reply{ChatID: session.ChatID, Text: msgDone, RemoveOptions: true})
	default:
		m.send(Reply{ChatID: session.ChatID, Text: msgWantRecs, Options: []string{optYes, optNo}})
	}
}

// handleRecommendDirect is terminal after one orchestrator call,
// success or failure.
func (m *Machine) handleRecommendDirect(ctx context.Context, session *model.Session, text string) {
	query := strings.TrimSpace(text)
	if query == "" {
		m.reply(session.ChatID, msgRecommendAsk)
		return
	}

	m.reply(session.ChatID, msgRecommending)
	result := m.runRecommend(ctx, query)
	session.Reset()
	m.send(Reply{ChatID: session.ChatID, Text: result, RemoveOptions: true})
}

func (m *Machine) runRecommend(ctx context.Context, query string) string {
	recs, err := m.recommender.Recommend(ctx, query, m.cfg.RecommendCount, m.cfg.SimilarityThreshold)
	if err != nil {
		log.Error("Recommendation failed", zap.String("query", query), zap.Error(err))
		return m.failureMessage(err, msgTryLater)
	}
	if len(recs) == 0 {
		return msgNoRecs
	}
	return FormatRecommendations(query, recs)
}

func (m *Machine) handleMyRatings(session *model.Session) {
	list, err := m.store.ListUserRatings(session.UserID)
	if err != nil {
		log.Error("Failed to list user ratings", zap.Int64("user_id", session.UserID), zap.Error(err))
		m.reply(session.ChatID, msgStoreFailed)
		return
	}
	m.reply(session.ChatID, FormatUserRatings(list))
}

// failureMessage maps an error to the user-facing text. Format and
// timeout failures of the generative service share one message.
func (m *Machine) failureMessage(err error, fallback string) string {
	if errors.Is(err, llm.ErrGenerationFormat) || errors.Is(err, llm.ErrGenerationTimeout) {
		return msgTryLater
	}
	return fallback
}

func (m *Machine) reply(chatID int64, text string) {
	m.send(Reply{ChatID: chatID, Text: text})
}

func (m *Machine) send(reply Reply) {
	if err := m.sender.Send(reply); err != nil {
		log.Error("Failed to send reply", zap.Int64("chat_id", reply.ChatID), zap.Error(err))
	}
}

func candidateOptions(n int) []string {
	opts := make([]string, 0, n+1)
	for i := 1; i <= n; i++ {
		opts = append(opts, strconv.Itoa(i))
	}
	return append(opts, optSearchAgain)
}

func starOptions() []string {
	return []string{"1", "2", "3", "4", "5"}
}
