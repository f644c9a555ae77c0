package systray

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/getlantern/systray"
)

// SystrayManager manages the system tray icon and menu
type SystrayManager struct {
	webPort  int
	iconData []byte
	toggle   chan struct{}
	quit     chan struct{}
}

// NewSystrayManager creates a new systray manager
func NewSystrayManager(webPort int, iconData []byte) *SystrayManager {
	return &SystrayManager{
		webPort:  webPort,
		iconData: iconData,
		toggle:   make(chan struct{}, 1),
		quit:     make(chan struct{}),
	}
}

// Run starts the system tray (blocking call)
func (m *SystrayManager) Run() {
	systray.Run(m.onReady, m.onExit)
}

// Stop stops the system tray
func (m *SystrayManager) Stop() {
	systray.Quit()
}

// ToggleCapture returns a channel that receives a signal whenever the user
// clicks the Pause/Resume menu item
func (m *SystrayManager) ToggleCapture() <-chan struct{} {
	return m.toggle
}

// WaitForQuit returns a channel that will be closed when user clicks Quit
func (m *SystrayManager) WaitForQuit() <-chan struct{} {
	return m.quit
}

// onReady is called when the systray is ready
func (m *SystrayManager) onReady() {
	// Set icon
	if len(m.iconData) > 0 {
		systray.SetIcon(m.iconData)
	}

	// Set tooltip
	systray.SetTitle("KeyWatch")
	systray.SetTooltip("KeyWatch - Keyboard Watch Service")

	// Add menu items
	mToggle := systray.AddMenuItem("Pause Capture", "Suspend or resume keyboard interception")
	mOpenWebUI := systray.AddMenuItem("Open Monitor", "Open the KeyWatch monitor page")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit KeyWatch")

	// Handle menu clicks
	go func() {
		paused := false
		for {
			select {
			case <-mToggle.ClickedCh:
				paused = !paused
				if paused {
					mToggle.SetTitle("Resume Capture")
				} else {
					mToggle.SetTitle("Pause Capture")
				}
				select {
				case m.toggle <- struct{}{}:
				default:
				}
			case <-mOpenWebUI.ClickedCh:
				m.openWebUI()
			case <-mQuit.ClickedCh:
				slog.Info("User requested quit from system tray")
				close(m.quit)
				systray.Quit()
				return
			}
		}
	}()
}

// onExit is called when the systray is exiting
func (m *SystrayManager) onExit() {
	slog.Info("System tray exited")
}

// openWebUI opens the monitor page in the default browser
func (m *SystrayManager) openWebUI() {
	url := fmt.Sprintf("http://localhost:%d", m.webPort)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		slog.Error("Failed to open monitor page", "error", err, "url", url)
	}
}
