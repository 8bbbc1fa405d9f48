package publish

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/xnat/docsync/pkg/confluence"
	"github.com/xnat/docsync/pkg/rewrite"
)

// DefaultMessage is the version message used when none is given.
const DefaultMessage = "Posting from docsync"

// Store is the remote content store a Publisher pushes to.
// *confluence.Client satisfies it.
type Store interface {
	Fetch(ctx context.Context, id string) (*confluence.Content, error)
	Update(ctx context.Context, id string, content *confluence.Content) (*confluence.Content, error)
}

var _ Store = (*confluence.Client)(nil)

// State is a step of a single publish.
type State int

const (
	Idle State = iota
	IDResolved
	MessageResolved
	Fetched
	VersionValidated
	Submitted
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case IDResolved:
		return "id-resolved"
	case MessageResolved:
		return "message-resolved"
	case Fetched:
		return "fetched"
	case VersionValidated:
		return "version-validated"
	case Submitted:
		return "submitted"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Request describes one publish.
type Request struct {
	// PostID overrides the first-line id marker when set.
	PostID string

	// Path is the storage-format file to upload.
	Path string

	// Message words are joined with single spaces into the version message.
	Message []string
}

// Result describes a successful publish.
type Result struct {
	PostID          string
	Title           string
	SpaceKey        string
	PreviousVersion int
	Version         int
	Message         string
	WebURL          string
}

// Config holds configuration for a Publisher.
type Config struct {
	Store          Store
	Fs             afero.Fs
	DefaultMessage string
	Logger         hclog.Logger
}

// Publisher pushes a local storage-format document to an existing post as a
// new version. It performs no retries; every failure ends the publish.
type Publisher struct {
	store          Store
	fs             afero.Fs
	defaultMessage string
	logger         hclog.Logger
}

// New creates a Publisher.
func New(cfg Config) (*Publisher, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.DefaultMessage == "" {
		cfg.DefaultMessage = DefaultMessage
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	return &Publisher{
		store:          cfg.Store,
		fs:             cfg.Fs,
		defaultMessage: cfg.DefaultMessage,
		logger:         cfg.Logger.Named("publisher"),
	}, nil
}

// run tracks the current state of one Publish call.
type run struct {
	state  State
	logger hclog.Logger
}

func (r *run) advance(s State, args ...interface{}) {
	r.logger.Debug("state transition", append([]interface{}{"from", r.state, "to", s}, args...)...)
	r.state = s
}

func (r *run) fail(kind ErrorKind, err error) error {
	r.logger.Error("publish failed", "state", r.state, "kind", kind, "error", err)
	pe := &Error{Kind: kind, State: r.state, Err: err}
	r.state = Failed
	return pe
}

// Publish uploads req.Path as the next version of the resolved post.
func (p *Publisher) Publish(ctx context.Context, req Request) (*Result, error) {
	r := &run{state: Idle, logger: p.logger.With("path", req.Path)}

	data, err := afero.ReadFile(p.fs, req.Path)
	if err != nil {
		return nil, r.fail(InputError, fmt.Errorf("failed to read %s: %w", req.Path, err))
	}
	content := string(data)

	firstLine := ""
	if lines := rewrite.SplitLines(content); len(lines) > 0 {
		firstLine = lines[0]
	}
	postID, err := ResolvePostID(req.PostID, firstLine)
	if err != nil {
		return nil, r.fail(InputError, err)
	}
	r.advance(IDResolved, "post_id", postID)

	message := ResolveMessage(req.Message, p.defaultMessage)
	r.advance(MessageResolved, "message", message)

	existing, err := p.store.Fetch(ctx, postID)
	if err != nil {
		return nil, r.fail(RemoteReadError, fmt.Errorf("failed to get post %s: %w", postID, err))
	}
	if existing == nil {
		return nil, r.fail(RemoteReadError, fmt.Errorf("failed to get post %s: empty response", postID))
	}
	r.advance(Fetched, "title", existing.Title)

	previous := existing.VersionNumber()
	if previous <= 0 {
		return nil, r.fail(RemoteReadError, fmt.Errorf("post %s: %w", postID, ErrMissingVersion))
	}
	spaceKey := existing.SpaceKey()
	if spaceKey == "" {
		return nil, r.fail(RemoteReadError, fmt.Errorf("post %s: %w", postID, ErrMissingSpaceKey))
	}
	r.advance(VersionValidated, "version", previous, "space", spaceKey)

	next := &confluence.Content{
		ID:    postID,
		Type:  existing.Type,
		Title: existing.Title,
		Space: &confluence.Space{Key: spaceKey},
		Body:  confluence.NewStorageBody(content),
		Version: &confluence.Version{
			Number:  previous + 1,
			Message: message,
		},
	}

	updated, err := p.store.Update(ctx, postID, next)
	if err != nil {
		return nil, r.fail(RemoteWriteError, fmt.Errorf("failed to update post %s: %w", postID, err))
	}
	r.advance(Submitted, "version", next.Version.Number)

	result := &Result{
		PostID:          postID,
		Title:           existing.Title,
		SpaceKey:        spaceKey,
		PreviousVersion: previous,
		Version:         next.Version.Number,
		Message:         message,
		WebURL:          updated.WebURL(),
	}
	if result.WebURL == "" {
		result.WebURL = existing.WebURL()
	}
	r.advance(Done)

	p.logger.Info("published",
		"post_id", postID,
		"title", result.Title,
		"version", result.Version,
	)

	return result, nil
}
