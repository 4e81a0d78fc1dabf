// Package session plays Minesweeper games with the inference engine.
//
// A Session is the game loop the knowledge base was written for. Each
// step it asks the knowledge base for a proven-safe cell, falls back to a
// random unconstrained cell when nothing is proven, reveals the cell on the
// board and reports the neighbour count back:
//
//	for status == Playing
//	    cell := kb.SafeMove() or kb.UnconstrainedMove(rng)
//	    if board.IsMine(cell): Lost
//	    kb.RecordObservation(cell, board.NearbyMines(cell))
//	    if kb.Mines() == board mines or every safe cell revealed: Won
//
// Every session owns its board view, knowledge base and random source;
// sessions share nothing and can run concurrently (see Runner).
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gitrdm/gokansweeper/pkg/board"
	"github.com/gitrdm/gokansweeper/pkg/minesweeper"
)

// ErrFinished is returned by Step once the game is over.
var ErrFinished = errors.New("session finished")

// Status is the state of a game.
type Status int

const (
	Playing Status = iota // game in progress
	Won                   // every mine identified, or every safe cell revealed
	Lost                  // a mine was revealed
	Stuck                 // no move left, or the move limit was reached
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	case Stuck:
		return "stuck"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Move records one revealed cell.
type Move struct {
	Cell  minesweeper.Cell
	Guess bool // chosen by UnconstrainedMove rather than SafeMove
	Mine  bool // the cell was a mine and the game was lost
	Count int  // neighbour mines reported; -1 when Mine
}

// Result summarises a session.
type Result struct {
	ID         uuid.UUID
	Name       string
	Status     Status
	Moves      []Move
	Guesses    int
	Revealed   int
	MinesFound int
	Stats      minesweeper.InferenceStats
	Err        error
}

// Session is one game between a board and a knowledge base.
// It is not safe for concurrent use.
type Session struct {
	id       uuid.UUID
	name     string
	board    *board.Board
	kb       *minesweeper.KnowledgeBase
	rng      minesweeper.RandomSource
	maxMoves int
	kbOpts   []minesweeper.Option
	logger   *zap.Logger

	moves    []Move
	guesses  int
	revealed int
	status   Status
}

// Option configures a Session.
type Option func(*Session)

// WithName labels the session in logs and results.
func WithName(name string) Option {
	return func(s *Session) { s.name = name }
}

// WithLogger sets the session logger. Nil is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxMoves stops the game as Stuck after n moves. Zero means no limit.
func WithMaxMoves(n int) Option {
	return func(s *Session) { s.maxMoves = n }
}

// WithKnowledgeBaseOptions passes options through to the knowledge base.
func WithKnowledgeBaseOptions(opts ...minesweeper.Option) Option {
	return func(s *Session) { s.kbOpts = append(s.kbOpts, opts...) }
}

// New starts a game on b. rng decides moves when nothing is proven safe.
func New(b *board.Board, rng minesweeper.RandomSource, opts ...Option) (*Session, error) {
	if b == nil {
		return nil, fmt.Errorf("Session: board cannot be nil")
	}
	if rng == nil {
		return nil, fmt.Errorf("Session: random source cannot be nil")
	}

	s := &Session{
		id:     uuid.New(),
		board:  b,
		rng:    rng,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session", s.id.String()), zap.String("name", s.name))

	kb, err := minesweeper.NewKnowledgeBase(b.Grid().Height, b.Grid().Width, s.kbOpts...)
	if err != nil {
		return nil, fmt.Errorf("Session: %w", err)
	}
	s.kb = kb
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Status returns the current game state.
func (s *Session) Status() Status { return s.status }

// KnowledgeBase returns the session's knowledge base for inspection.
func (s *Session) KnowledgeBase() *minesweeper.KnowledgeBase { return s.kb }

// Step makes one move. It returns ErrFinished when the game is already over.
// An error from the knowledge base means the board and the engine disagree
// and the game cannot continue.
func (s *Session) Step() (Move, error) {
	if s.status != Playing {
		return Move{}, ErrFinished
	}

	cell, ok := s.kb.SafeMove()
	guess := false
	if !ok {
		cell, ok = s.kb.UnconstrainedMove(s.rng)
		guess = true
	}
	if !ok {
		s.finish(Stuck)
		return Move{}, ErrFinished
	}

	move := Move{Cell: cell, Guess: guess}
	if guess {
		s.guesses++
	}

	if s.board.IsMine(cell) {
		move.Mine = true
		move.Count = -1
		s.moves = append(s.moves, move)
		s.logger.Debug("revealed a mine", zap.Stringer("cell", cell), zap.Bool("guess", guess))
		s.finish(Lost)
		return move, nil
	}

	move.Count = s.board.NearbyMines(cell)
	s.moves = append(s.moves, move)
	if err := s.kb.RecordObservation(cell, move.Count); err != nil {
		s.finish(Stuck)
		return move, fmt.Errorf("session %s: recording %s: %w", s.id, cell, err)
	}
	s.revealed++
	s.logger.Debug("revealed cell",
		zap.Stringer("cell", cell),
		zap.Int("count", move.Count),
		zap.Bool("guess", guess))

	switch {
	case s.board.Won(s.kb.Mines()), s.revealed == s.board.SafeCount():
		s.finish(Won)
	case s.maxMoves > 0 && len(s.moves) >= s.maxMoves:
		s.finish(Stuck)
	}
	return move, nil
}

// Run steps until the game ends or ctx is done.
func (s *Session) Run(ctx context.Context) (Result, error) {
	s.logger.Info("session started", zap.Stringer("grid", s.board.Grid()), zap.Int("mines", s.board.MineCount()))
	for s.status == Playing {
		if err := ctx.Err(); err != nil {
			return s.Result(), err
		}
		if _, err := s.Step(); err != nil && !errors.Is(err, ErrFinished) {
			return s.Result(), err
		}
	}
	return s.Result(), nil
}

// Result returns a snapshot of the session.
func (s *Session) Result() Result {
	moves := make([]Move, len(s.moves))
	copy(moves, s.moves)
	return Result{
		ID:         s.id,
		Name:       s.name,
		Status:     s.status,
		Moves:      moves,
		Guesses:    s.guesses,
		Revealed:   s.revealed,
		MinesFound: s.kb.Mines().Len(),
		Stats:      s.kb.Stats(),
		Err:        s.kb.Err(),
	}
}

func (s *Session) finish(status Status) {
	s.status = status
	s.logger.Info("session finished",
		zap.Stringer("status", status),
		zap.Int("moves", len(s.moves)),
		zap.Int("guesses", s.guesses),
		zap.Int("mines_found", s.kb.Mines().Len()))
}
