// Package assistant proxies user messages to the conversational agent and
// keeps a transcript.
package assistant

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/universitas/manuales-backend/internal/domain"
	"github.com/universitas/manuales-backend/internal/logger"
	appctx "github.com/universitas/manuales-backend/internal/pkg/context"
)

const (
	// Canned replies: the endpoint answers something sensible even when the
	// agent is down or has nothing to say.
	fallbackNoAnswer    = "No he podido entender eso. ¿Puedes decirlo de otra forma?"
	fallbackUnavailable = "Lo siento, estoy teniendo problemas para conectarme. Por favor, inténtalo más tarde."

	transcriptTimeout = 10 * time.Second
)

/*
IntentDetector
--------------
The conversational agent. One call per user utterance within a session.
*/
type IntentDetector interface {
	DetectIntent(ctx context.Context, sessionID, text string) (string, error)
}

/*
TranscriptLog
-------------
Transcript sink. Appends are fire-and-forget: a failed write never affects
the user-facing reply.
*/
type TranscriptLog interface {
	Append(ctx context.Context, userName, userMessage, botResponse string) error
}

type Service struct {
	detector   IntentDetector
	transcript TranscriptLog // nil disables transcript logging

	wg sync.WaitGroup
}

func NewService(detector IntentDetector, transcript TranscriptLog) *Service {
	return &Service{detector: detector, transcript: transcript}
}

type Reply struct {
	Text      string
	SessionID string
}

// Message sends one utterance to the agent and returns its reply. A blank
// session id starts a new conversation. Agent failures degrade to a canned
// reply instead of an error; the transcript write happens on a detached
// goroutine with its own deadline.
func (s *Service) Message(ctx context.Context, userName, text, sessionID string) (Reply, error) {
	if text == "" {
		return Reply{}, domain.ErrMissingField("message")
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply, err := s.detector.DetectIntent(ctx, sessionID, text)
	switch {
	case err != nil:
		log := logger.WithCtx(ctx)
		log.Warn().Err(err).Str("session_id", sessionID).Msg("assistant backend failed, serving fallback")
		reply = fallbackUnavailable
	case reply == "":
		reply = fallbackNoAnswer
	}

	s.logExchange(ctx, userName, text, reply)

	return Reply{Text: reply, SessionID: sessionID}, nil
}

func (s *Service) logExchange(ctx context.Context, userName, text, reply string) {
	if s.transcript == nil {
		return
	}

	// Detach from the request context so the write survives the response,
	// keeping only the request id for correlation.
	logCtx := appctx.WithRequestID(context.Background(), appctx.RequestID(ctx))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(logCtx, transcriptTimeout)
		defer cancel()
		if err := s.transcript.Append(ctx, userName, text, reply); err != nil {
			log := logger.WithCtx(ctx)
			log.Error().Err(err).Msg("chat transcript write failed")
		}
	}()
}

// Wait blocks until in-flight transcript writes finish. Called on shutdown
// and by tests.
func (s *Service) Wait() {
	s.wg.Wait()
}
