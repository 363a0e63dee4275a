// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docuchat/docuchat-tui/internal/ui/styles"
	"github.com/docuchat/docuchat-tui/internal/util"
)

// =============================================================================
// MESSAGES
// =============================================================================

// StartAnalysisMsg signals that the staged files should be processed.
type StartAnalysisMsg struct {
	Paths []string
}

// =============================================================================
// UPLOAD MODEL
// =============================================================================

// uploadFocus identifies which pane of the upload screen has keyboard focus.
type uploadFocus int

const (
	focusPicker uploadFocus = iota
	focusStaged
)

// StagedFile is a file selected for processing but not yet parsed.
type StagedFile struct {
	Path string
	Name string
	Size int64
}

// Upload is the document selection screen. Files are staged from the
// picker, deduplicated by name and size, and submitted as a batch.
type Upload struct {
	picker filepicker.Model
	theme  *styles.Theme

	staged []StagedFile
	focus  uploadFocus
	cursor int
	notice string

	width  int
	height int
}

// NewUpload creates the upload screen rooted at the user's home directory.
func NewUpload(theme *styles.Theme) Upload {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf"}
	fp.ShowHidden = false
	if home, err := os.UserHomeDir(); err == nil {
		fp.CurrentDirectory = home
	}

	return Upload{
		picker: fp,
		theme:  theme,
	}
}

// Init starts the file picker.
func (u Upload) Init() tea.Cmd {
	return u.picker.Init()
}

// SetSize updates the layout dimensions.
func (u *Upload) SetSize(width, height int) {
	u.width = width
	u.height = height
	u.picker.Height = height - 12
	if u.picker.Height < 5 {
		u.picker.Height = 5
	}
}

// SetNotice surfaces a one-line warning under the panes, used by the root
// model to report processing and session failures on this screen.
func (u *Upload) SetNotice(notice string) {
	u.notice = notice
}

// StagedPaths returns the paths of all staged files in selection order.
func (u *Upload) StagedPaths() []string {
	paths := make([]string, len(u.staged))
	for i, f := range u.staged {
		paths[i] = f.Path
	}
	return paths
}

// StagedCount returns the number of staged files.
func (u *Upload) StagedCount() int {
	return len(u.staged)
}

// Stage adds a file to the staging list. Files matching an already staged
// entry by name and size are ignored. Returns false for duplicates.
func (u *Upload) Stage(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		u.notice = "cannot read " + filepath.Base(path)
		return false
	}

	name := filepath.Base(path)
	for _, f := range u.staged {
		if f.Name == name && f.Size == info.Size() {
			u.notice = name + " is already staged"
			return false
		}
	}

	u.staged = append(u.staged, StagedFile{Path: path, Name: name, Size: info.Size()})
	u.notice = ""
	return true
}

// removeAt drops the staged file at the given index.
func (u *Upload) removeAt(i int) {
	if i < 0 || i >= len(u.staged) {
		return
	}
	u.staged = append(u.staged[:i], u.staged[i+1:]...)
	if u.cursor >= len(u.staged) && u.cursor > 0 {
		u.cursor--
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the upload screen.
func (u Upload) Update(msg tea.Msg) (Upload, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab":
			if u.focus == focusPicker {
				u.focus = focusStaged
			} else {
				u.focus = focusPicker
			}
			return u, nil

		case "ctrl+s":
			if len(u.staged) > 0 {
				return u, u.startAnalysis()
			}
			u.notice = "stage at least one PDF first"
			return u, nil
		}

		if u.focus == focusStaged {
			switch key.String() {
			case "up", "k":
				if u.cursor > 0 {
					u.cursor--
				}
			case "down", "j":
				if u.cursor < len(u.staged)-1 {
					u.cursor++
				}
			case "x", "delete", "backspace":
				u.removeAt(u.cursor)
			case "enter":
				if len(u.staged) > 0 {
					return u, u.startAnalysis()
				}
			}
			return u, nil
		}
	}

	var cmd tea.Cmd
	u.picker, cmd = u.picker.Update(msg)

	if didSelect, path := u.picker.DidSelectFile(msg); didSelect {
		u.Stage(path)
	}
	if didSelect, path := u.picker.DidSelectDisabledFile(msg); didSelect {
		u.notice = filepath.Base(path) + " is not a PDF"
	}

	return u, cmd
}

// startAnalysis emits the batch submission message.
func (u *Upload) startAnalysis() tea.Cmd {
	paths := u.StagedPaths()
	return func() tea.Msg {
		return StartAnalysisMsg{Paths: paths}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the upload screen.
func (u Upload) View() string {
	title := u.theme.UploadTitle.Render("Select PDF documents")
	subtitle := u.theme.UploadInfo.Render("Pick files to analyze, then start the chat session.")

	pickerPane := u.renderPickerPane()
	stagedPane := u.renderStagedPane()

	var body string
	if u.theme.GetLayoutMode() == styles.LayoutNarrow {
		body = lipgloss.JoinVertical(lipgloss.Left, pickerPane, stagedPane)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, pickerPane, " ", stagedPane)
	}

	lines := []string{title, subtitle, "", body}

	if u.notice != "" {
		lines = append(lines, "", InlineWarning(u.notice))
	}

	hints := u.theme.ShortcutKey.Render("tab") + u.theme.ShortcutDesc.Render(" switch pane  ") +
		u.theme.ShortcutKey.Render("enter") + u.theme.ShortcutDesc.Render(" select  ") +
		u.theme.ShortcutKey.Render("x") + u.theme.ShortcutDesc.Render(" remove  ") +
		u.theme.ShortcutKey.Render("ctrl+s") + u.theme.ShortcutDesc.Render(" start analysis  ") +
		u.theme.ShortcutKey.Render("ctrl+c") + u.theme.ShortcutDesc.Render(" quit")
	lines = append(lines, "", hints)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderPickerPane renders the file picker with a focus border.
func (u Upload) renderPickerPane() string {
	box := u.theme.SidebarBox
	if u.focus == focusPicker {
		box = box.BorderForeground(styles.Purple)
	}

	header := u.theme.SidebarTitle.Render("Browse")
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, header, u.picker.View()))
}

// renderStagedPane renders the staged file list.
func (u Upload) renderStagedPane() string {
	box := u.theme.SidebarBox
	if u.focus == focusStaged {
		box = box.BorderForeground(styles.Purple)
	}

	header := u.theme.SidebarTitle.Render("Staged")
	lines := []string{header}

	if len(u.staged) == 0 {
		lines = append(lines, u.theme.DocMeta.Render("no files staged"))
	}

	for i, f := range u.staged {
		label := util.TruncateRunes(f.Name, 28) + "  " +
			u.theme.DocMeta.Render(util.FormatFileSize(f.Size))
		if u.focus == focusStaged && i == u.cursor {
			lines = append(lines, u.theme.DocItemSelected.Render(label))
		} else {
			lines = append(lines, u.theme.DocItem.Render(label))
		}
	}

	if len(u.staged) > 0 {
		lines = append(lines, "", u.theme.UploadAction.Render("ctrl+s to start analysis"))
	}

	return box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
