// Package sync versions the daylog data directory with git, in-process via
// go-git. Saves are committed after a quiet period with messages built from
// what changed, and can be pushed to or pulled from a remote.
package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	gosync "sync"
	"time"

	"daylog/internal/fsutil"
	"daylog/internal/storage"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"go.uber.org/zap"
)

// Config holds git sync configuration.
type Config struct {
	Enabled       bool
	AutoCommit    bool
	AutoPush      bool
	PullOnStartup bool
	CommitMessage string // "auto" or a fixed message
	AuthorName    string
	AuthorEmail   string
	RemoteName    string // defaults to origin
}

// DefaultConfig returns the default sync configuration.
func DefaultConfig() Config {
	return Config{
		AutoCommit:    true,
		CommitMessage: "auto",
		RemoteName:    git.DefaultRemoteName,
	}
}

// ErrNotRepo is returned when the data directory has not been initialized.
var ErrNotRepo = errors.New("not a git repository - run 'daylog sync --init' first")

// ErrNoRemote is returned by Push and Pull when no remote is configured.
var ErrNoRemote = errors.New("no remote configured - add one with 'daylog sync --remote <url>'")

// Status represents the current git status.
type Status struct {
	IsRepo       bool
	HasRemote    bool
	RemoteName   string
	RemoteURL    string
	Branch       string
	Ahead        int
	Behind       int
	HasChanges   bool
	LastCommitAt *time.Time
}

// GitSync manages git operations for the data directory.
type GitSync struct {
	dataDir string
	config  Config
	log     *zap.Logger
	now     func() time.Time

	// Debounced auto-commit state.
	pendingFiles    map[string]bool
	pendingContexts []storage.SaveContext
	commitTimer     *time.Timer
	mu              gosync.Mutex

	// Serializes repository operations.
	opMu gosync.Mutex

	debounceDuration time.Duration
}

const (
	pullPushTimeout = 60 * time.Second

	gitignoreContent = `# daylog - git sync ignore file
backups/
*.bak
*.corrupt.*
*.tmp-*
*.log
`
)

// New creates a GitSync for dataDir.
func New(dataDir string, cfg Config, log *zap.Logger) *GitSync {
	if cfg.RemoteName == "" {
		cfg.RemoteName = git.DefaultRemoteName
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GitSync{
		dataDir:          dataDir,
		config:           cfg,
		log:              log,
		now:              time.Now,
		pendingFiles:     make(map[string]bool),
		debounceDuration: 2 * time.Second,
	}
}

// SetDebounce overrides the auto-commit quiet period.
func (g *GitSync) SetDebounce(d time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.debounceDuration = d
}

func (g *GitSync) open() (*git.Repository, error) {
	repo, err := git.PlainOpen(g.dataDir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, ErrNotRepo
	}
	return repo, err
}

// IsRepo reports whether the data directory is a git repository.
func (g *GitSync) IsRepo() bool {
	_, err := g.open()
	return err == nil
}

// Init creates the repository with a .gitignore and an initial commit.
// Running it on an existing repository only refreshes the .gitignore.
func (g *GitSync) Init() error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	repo, err := git.PlainInit(g.dataDir, false)
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		repo, err = git.PlainOpen(g.dataDir)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize git repository: %w", err)
	}

	path := filepath.Join(g.dataDir, ".gitignore")
	if err := fsutil.WriteFileAtomic(path, []byte(gitignoreContent), 0600); err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	files := []string{".gitignore"}
	if _, err := os.Stat(filepath.Join(g.dataDir, storage.EntriesFile)); err == nil {
		files = append(files, storage.EntriesFile)
	}
	_, err = g.commit(repo, files, "Initialize daylog data repository")
	return err
}

// Status returns the current git status.
func (g *GitSync) Status() (*Status, error) {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	repo, err := g.open()
	if errors.Is(err, ErrNotRepo) {
		return &Status{}, nil
	}
	if err != nil {
		return nil, err
	}
	status := &Status{IsRepo: true}

	head, err := repo.Head()
	if err == nil {
		status.Branch = head.Name().Short()
		if c, err := repo.CommitObject(head.Hash()); err == nil {
			when := c.Committer.When
			status.LastCommitAt = &when
		}
	}

	if remote, err := repo.Remote(g.config.RemoteName); err == nil {
		status.HasRemote = true
		status.RemoteName = remote.Config().Name
		if urls := remote.Config().URLs; len(urls) > 0 {
			status.RemoteURL = urls[0]
		}
	}

	if wt, err := repo.Worktree(); err == nil {
		if st, err := wt.Status(); err == nil {
			status.HasChanges = !st.IsClean()
		}
	}

	if status.HasRemote && head != nil {
		ref, err := repo.Reference(plumbing.NewRemoteReferenceName(status.RemoteName, status.Branch), true)
		if err == nil {
			status.Ahead, status.Behind = aheadBehind(repo, head.Hash(), ref.Hash())
		}
	}

	return status, nil
}

// aheadBehind counts commits reachable from local but not remote and the
// reverse.
func aheadBehind(repo *git.Repository, local, remote plumbing.Hash) (ahead, behind int) {
	if local == remote {
		return 0, 0
	}
	localSet := reachable(repo, local)
	remoteSet := reachable(repo, remote)
	for h := range localSet {
		if !remoteSet[h] {
			ahead++
		}
	}
	for h := range remoteSet {
		if !localSet[h] {
			behind++
		}
	}
	return ahead, behind
}

func reachable(repo *git.Repository, from plumbing.Hash) map[plumbing.Hash]bool {
	seen := make(map[plumbing.Hash]bool)
	iter, err := repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return seen
	}
	_ = iter.ForEach(func(c *object.Commit) error {
		seen[c.Hash] = true
		return nil
	})
	return seen
}

// Commit stages and commits files (relative to the data directory). It
// returns without error when nothing changed.
func (g *GitSync) Commit(files []string) error {
	return g.commitWithContexts(files, nil)
}

// CommitAll stages every change in the data directory and commits it.
func (g *GitSync) CommitAll() error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	repo, err := g.open()
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}
	_, err = g.commit(repo, nil, "Update daylog data")
	return err
}

// commit stages files (none when nil) and commits if anything is staged.
// The caller holds opMu.
func (g *GitSync) commit(repo *git.Repository, files []string, message string) (bool, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return false, err
	}
	for _, f := range files {
		if _, err := wt.Add(f); err != nil {
			return false, fmt.Errorf("failed to stage %s: %w", f, err)
		}
	}

	st, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("failed to check staged changes: %w", err)
	}
	if !hasStaged(st) {
		return false, nil
	}

	if _, err := wt.Commit(message, &git.CommitOptions{Author: g.signature()}); err != nil {
		return false, fmt.Errorf("failed to commit: %w", err)
	}
	g.log.Info("committed data", zap.String("message", message), zap.Strings("files", files))
	return true, nil
}

func hasStaged(st git.Status) bool {
	for _, fs := range st {
		if fs.Staging != git.Unmodified && fs.Staging != git.Untracked {
			return true
		}
	}
	return false
}

// signature prefers configured author details, then the global git config.
func (g *GitSync) signature() *object.Signature {
	name, email := g.config.AuthorName, g.config.AuthorEmail
	if name == "" || email == "" {
		if cfg, err := gitconfig.LoadConfig(gitconfig.GlobalScope); err == nil {
			if name == "" {
				name = cfg.User.Name
			}
			if email == "" {
				email = cfg.User.Email
			}
		}
	}
	if name == "" {
		name = "daylog"
	}
	if email == "" {
		email = "daylog@localhost"
	}
	return &object.Signature{Name: name, Email: email, When: g.now()}
}

// Pull fast-forwards the current branch from the remote.
func (g *GitSync) Pull() error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	repo, err := g.open()
	if err != nil {
		return err
	}
	if _, err := repo.Remote(g.config.RemoteName); err != nil {
		return ErrNoRemote
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pullPushTimeout)
	defer cancel()
	err = wt.PullContext(ctx, &git.PullOptions{RemoteName: g.config.RemoteName})
	switch {
	case err == nil || errors.Is(err, git.NoErrAlreadyUpToDate):
		return nil
	case errors.Is(err, git.ErrNonFastForwardUpdate):
		return fmt.Errorf("pull failed: local and remote histories diverged; resolve with git in %s", g.dataDir)
	default:
		return fmt.Errorf("pull failed: %w", err)
	}
}

// Push pushes local commits to the remote.
func (g *GitSync) Push() error {
	g.opMu.Lock()
	defer g.opMu.Unlock()
	return g.push()
}

func (g *GitSync) push() error {
	repo, err := g.open()
	if err != nil {
		return err
	}
	if _, err := repo.Remote(g.config.RemoteName); err != nil {
		return ErrNoRemote
	}

	ctx, cancel := context.WithTimeout(context.Background(), pullPushTimeout)
	defer cancel()
	err = repo.PushContext(ctx, &git.PushOptions{RemoteName: g.config.RemoteName})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("push failed: %w", err)
	}
	return nil
}

// AddRemote adds or replaces the named remote.
func (g *GitSync) AddRemote(name, url string) error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	if name == "" {
		return fmt.Errorf("remote name is required")
	}
	if url == "" {
		return fmt.Errorf("remote URL is required")
	}

	repo, err := g.open()
	if err != nil {
		return err
	}
	if _, err := repo.Remote(name); err == nil {
		if err := repo.DeleteRemote(name); err != nil {
			return fmt.Errorf("failed to update remote: %w", err)
		}
	}
	if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{Name: name, URLs: []string{url}}); err != nil {
		return fmt.Errorf("failed to add remote: %w", err)
	}
	return nil
}

// OnSave queues a storage save for a debounced commit. It is meant to be
// registered with storage.Storage.SetOnSave.
func (g *GitSync) OnSave(sc storage.SaveContext) {
	if !g.config.Enabled || !g.config.AutoCommit {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.pendingFiles[sc.Filename] = true
	g.pendingContexts = append(g.pendingContexts, sc)

	if g.commitTimer != nil {
		g.commitTimer.Stop()
	}
	g.commitTimer = time.AfterFunc(g.debounceDuration, g.flushCommit)
}

// Flush commits pending saves immediately.
func (g *GitSync) Flush() {
	g.mu.Lock()
	if g.commitTimer != nil {
		g.commitTimer.Stop()
		g.commitTimer = nil
	}
	g.mu.Unlock()

	g.flushCommit()
}

func (g *GitSync) flushCommit() {
	g.mu.Lock()
	files := make([]string, 0, len(g.pendingFiles))
	for f := range g.pendingFiles {
		files = append(files, f)
	}
	contexts := g.pendingContexts
	g.pendingFiles = make(map[string]bool)
	g.pendingContexts = nil
	g.mu.Unlock()

	if len(files) == 0 {
		return
	}
	sort.Strings(files)
	if err := g.commitWithContexts(files, contexts); err != nil {
		g.log.Warn("auto-commit failed", zap.Error(err))
	}
}

func (g *GitSync) commitWithContexts(files []string, contexts []storage.SaveContext) error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	if len(files) == 0 {
		return nil
	}
	repo, err := g.open()
	if err != nil {
		return err
	}

	committed, err := g.commit(repo, files, g.commitMessage(files, contexts))
	if err != nil || !committed {
		return err
	}

	if g.config.AutoPush {
		if err := g.push(); err != nil {
			return fmt.Errorf("committed locally, but push failed: %w", err)
		}
	}
	return nil
}

// commitMessage builds messages like "Add entry: 2024-01-05 Ran 5k" or
// "Delete 3 entries".
func (g *GitSync) commitMessage(files []string, contexts []storage.SaveContext) string {
	if g.config.CommitMessage != "" && g.config.CommitMessage != "auto" {
		return g.config.CommitMessage
	}

	switch len(contexts) {
	case 0:
		if len(files) == 1 {
			if files[0] == storage.EntriesFile {
				return "Update entries"
			}
			return "Update " + files[0]
		}
		return fmt.Sprintf("Update %d files", len(files))
	case 1:
		return formatSemanticMessage(contexts[0])
	}

	op := contexts[0].Operation
	for _, sc := range contexts[1:] {
		if sc.Operation != op {
			return fmt.Sprintf("Update: %d changes", len(contexts))
		}
	}
	return fmt.Sprintf("%s %d entries", verb(op), len(contexts))
}

func formatSemanticMessage(sc storage.SaveContext) string {
	if sc.Operation == "import" {
		return "Import " + sc.ItemName
	}
	if sc.ItemName == "" {
		return verb(sc.Operation) + " entry"
	}
	return fmt.Sprintf("%s entry: %s", verb(sc.Operation), sc.ItemName)
}

func verb(op string) string {
	switch op {
	case "update":
		return "Edit"
	case "":
		return "Update"
	default:
		return strings.ToUpper(op[:1]) + op[1:]
	}
}
