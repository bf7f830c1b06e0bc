package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"allocation-wallet-tui/api"
	"allocation-wallet-tui/component"
	"allocation-wallet-tui/config"
	"allocation-wallet-tui/panels"
	"allocation-wallet-tui/rpc"
	"allocation-wallet-tui/styles"
	"allocation-wallet-tui/views/home"
	"allocation-wallet-tui/wallet"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// -------------------- MODEL --------------------

// model represents the application state following The Elm Architecture
type model struct {
	w, h int

	activePage config.Page
	configPath string
	timeout    time.Duration

	// wallet session, backend and ledger shared by all panels
	session *wallet.Local
	backend *api.Client
	ledger  *rpc.Ledger
	token   config.Token

	// panels keyed by page; the visible one is bound to content
	panels  map[config.Page]component.Binder
	content *component.Region

	// backend session priming
	priming  bool
	primeErr error

	// wallet change subscription
	changes     <-chan wallet.Change
	unsubscribe func()

	spin spinner.Model

	// blocking notices, oldest first
	notices []component.NoticeMsg

	// transaction result panel
	result        *component.ResultMsg
	copiedMsg     string
	copiedMsgTime time.Time

	// home form
	homeForm *huh.Form

	// add-account form
	adding  bool
	addForm *huh.Form

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *strings.Builder
	logShown    string
	logViewport viewport.Model
	logReady    bool
	logSpinner  spinner.Model
}

// options are the command line settings
type options struct {
	configPath string
	backend    string
	logEnabled bool
	logLevel   string
}

// defaultConfigPath returns ~/.allocation-wallet.json
func defaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".allocation-wallet.json")
}

// -------------------- INIT --------------------

// newModel creates and initializes a new model with configuration from disk
func newModel(opts options) (*model, error) {
	configPath := opts.configPath
	if configPath == "" {
		configPath = defaultConfigPath()
	}

	cfg := config.ApplyEnv(config.LoadOrCreate(configPath))
	if opts.backend != "" {
		cfg.BackendURL = opts.backend
	}

	level := log.InfoLevel
	if opts.logLevel != "" {
		l, err := log.ParseLevel(opts.logLevel)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}
	logBuffer := &strings.Builder{}
	logger := newLogger(logBuffer, level)

	session := wallet.NewLocal(cfg.Wallets, cfg.Networks, persistTo(configPath))

	backend, err := api.New(cfg.BackendURL, cfg.Timeout())
	if err != nil {
		return nil, err
	}

	ledger, err := rpc.NewLedger(session, cfg.RewardsContract, cfg.Token.Address, os.Getenv("REWARDS_SIGNER_KEY"))
	if err != nil {
		return nil, err
	}
	if ledger.Signer() == "" {
		logger.Warn("no signer key, transactions are disabled", "env", "REWARDS_SIGNER_KEY")
	}

	all := panels.All(panels.Deps{
		Wallet:  session,
		Backend: backend,
		Ledger:  ledger,
		Token:   cfg.Token,
		Logger:  logger,
		Timeout: cfg.Timeout(),
	})

	// spinner
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	// log viewport, resized on first WindowSizeMsg
	vp := viewport.New(0, 20)
	vp.Style = lipgloss.NewStyle().
		Foreground(styles.CText).
		Background(styles.CPanel)

	logSpin := spinner.New()
	logSpin.Spinner = spinner.Dot
	logSpin.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	changes, unsubscribe := session.Subscribe()

	m := &model{
		activePage:  config.PageHome,
		configPath:  configPath,
		timeout:     cfg.Timeout(),
		session:     session,
		backend:     backend,
		ledger:      ledger,
		token:       cfg.Token,
		panels:      all,
		content:     &component.Region{},
		priming:     true,
		changes:     changes,
		unsubscribe: unsubscribe,
		spin:        sp,
		homeForm:    home.CreateForm(),
		logEnabled:  cfg.Logger || opts.logEnabled,
		logger:      logger,
		logBuffer:   logBuffer,
		logViewport: vp,
		logSpinner:  logSpin,
	}

	return m, nil
}

// newLogger creates the program logger writing into the log panel buffer
func newLogger(w io.Writer, level log.Level) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
	logger.SetStyles(&log.Styles{
		Timestamp: lipgloss.NewStyle().Foreground(cMuted),
		Caller:    lipgloss.NewStyle().Faint(true),
		Prefix:    lipgloss.NewStyle().Bold(true).Foreground(cAccent2),
		Message:   lipgloss.NewStyle().Foreground(cText),
		Key:       lipgloss.NewStyle().Foreground(cAccent),
		Value:     lipgloss.NewStyle().Foreground(cText),
		Separator: lipgloss.NewStyle().Faint(true),
		Keys:      map[string]lipgloss.Style{},
		Values:    map[string]lipgloss.Style{},
		Levels: map[log.Level]lipgloss.Style{
			log.DebugLevel: lipgloss.NewStyle().Foreground(cMuted).SetString("DEBUG"),
			log.InfoLevel:  lipgloss.NewStyle().Foreground(cAccent2).SetString("INFO"),
			log.WarnLevel:  lipgloss.NewStyle().Foreground(cWarn).SetString("WARN"),
			log.ErrorLevel: lipgloss.NewStyle().Foreground(cError).SetString("ERROR"),
		},
	})
	return logger
}

// persistTo saves wallet changes into the config file. Network endpoints
// are left as written so environment overrides never leak to disk.
func persistTo(path string) func([]config.WalletEntry, []config.Network) error {
	return func(accounts []config.WalletEntry, networks []config.Network) error {
		cfg := config.LoadOrCreate(path)
		cfg.Wallets = accounts

		active := ""
		for _, n := range networks {
			if n.Active {
				active = n.Name
			}
		}
		for i := range cfg.Networks {
			cfg.Networks[i].Active = cfg.Networks[i].Name == active
		}
		return config.Save(path, cfg)
	}
}

// Init implements tea.Model interface and returns initial commands
func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spin.Tick,
		primeSession(m.backend, m.timeout),
		listenWallet(m.changes),
	}
	if m.homeForm != nil {
		cmds = append(cmds, m.homeForm.Init())
	}
	if m.logEnabled {
		cmds = append(cmds, initLogViewport(), m.logSpinner.Tick)
	}
	m.addLog("info", "starting", "backend", m.backend.URL(), "network", m.session.ActiveNetwork().Name)
	return tea.Batch(cmds...)
}

// close releases the wallet subscription
func (m *model) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}
