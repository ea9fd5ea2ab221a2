package app

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavestream/internal/catalog"
	"github.com/llehouerou/wavestream/internal/keymap"
	"github.com/llehouerou/wavestream/internal/notify"
	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/ui/helpbindings"
	"github.com/llehouerou/wavestream/internal/ui/queuepanel"
	"github.com/llehouerou/wavestream/internal/ui/slider"
)

// Liker reads and updates the like state of songs.
type Liker interface {
	SetLiked(ctx context.Context, id string, liked bool) (catalog.LikeStatus, error)
	IsLiked(ctx context.Context, id string) (bool, error)
}

// Options configures a Model.
type Options struct {
	Service  playback.Service
	Liker    Liker           // optional
	Notifier notify.Notifier // optional; nil disables desktop notifications

	// InitialIDs are enqueued by id when the program starts.
	InitialIDs []string
}

type promptMode int

const (
	promptNone promptMode = iota
	promptEnqueue
	promptPlay
)

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusError
)

// Model is the root application model.
type Model struct {
	ctx      context.Context
	svc      playback.Service
	sub      *playback.Subscription
	liker    Liker
	notifier notify.Notifier
	initial  []string

	snap   playback.Snapshot
	liked  bool
	likeID string

	keys     *keymap.Resolver
	queue    queuepanel.Model
	help     helpbindings.Model
	showHelp bool

	prompt      promptMode
	promptInput textinput.Model

	seek   slider.Slider
	volume slider.Slider

	status        string
	statusLevel   statusLevel
	statusVersion int

	Width  int
	Height int
}

// New creates the root model and subscribes to the engine.
func New(ctx context.Context, opts Options) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Prompt = ""

	queue := queuepanel.New()
	queue.SetFocused(true)

	m := Model{
		ctx:         ctx,
		svc:         opts.Service,
		sub:         opts.Service.Subscribe(),
		liker:       opts.Liker,
		notifier:    opts.Notifier,
		initial:     opts.InitialIDs,
		snap:        opts.Service.Snapshot(),
		keys:        keymap.NewResolver(keymap.Bindings),
		queue:       queue,
		help:        helpbindings.New(),
		promptInput: ti,
	}
	m.queue.SetQueue(m.snap.Queue, m.snap.QueueIndex)
	m.queue.SyncCursor()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.WatchServiceEvents()}
	if cur := m.snap.Current; cur != nil {
		cmds = append(cmds, FetchLikeCmd(m.ctx, m.liker, cur.ID))
	}
	if len(m.initial) > 0 {
		cmds = append(cmds, m.submitIDs(promptEnqueue, m.initial))
	}
	return tea.Batch(cmds...)
}

// Snapshot returns the engine state the model last rendered.
func (m Model) Snapshot() playback.Snapshot {
	return m.snap
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.status
}

func (m *Model) refresh() {
	m.snap = m.svc.Snapshot()
	m.queue.SetQueue(m.snap.Queue, m.snap.QueueIndex)
}
