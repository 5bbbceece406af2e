package whatsapp

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/Anand-247/FE-VF/internal/logger"
)

const baseURL = "https://wa.me/"

var ErrNoPhoneNumber = errors.New("phone number has no digits")

// DeepLink builds https://wa.me/<digits>?text=<encoded>. Everything but the
// digits is dropped from phone; encoded must already be percent-encoded.
func DeepLink(phone, encoded string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return "", ErrNoPhoneNumber
	}
	return baseURL + digits + "?text=" + encoded, nil
}

// Opener hands a URL to something that can show it to the user.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// BrowserOpener opens URLs with the desktop's default handler.
type BrowserOpener struct{}

func (BrowserOpener) Open(ctx context.Context, url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	}
	return cmd.Start()
}

// NopOpener is used in server mode, where the link is returned to the client
// instead of being opened locally.
type NopOpener struct{}

func (NopOpener) Open(context.Context, string) error { return nil }

type Launcher struct {
	opener Opener
	log    *zap.Logger
}

func NewLauncher(opener Opener, log *zap.Logger) *Launcher {
	if opener == nil {
		opener = NopOpener{}
	}
	return &Launcher{opener: opener, log: logger.OrNop(log)}
}

// Launch opens the chat with the prefilled message and returns the link it
// built. Failing to open is logged and otherwise ignored; only a phone number
// without digits yields an error since no link can be built.
func (l *Launcher) Launch(ctx context.Context, phone, encoded string) (string, error) {
	link, err := DeepLink(phone, encoded)
	if err != nil {
		return "", err
	}

	if err := l.opener.Open(ctx, link); err != nil {
		l.log.Warn("failed to open whatsapp link", zap.String("phone", onlyPrefix(phone)), zap.Error(err))
	}
	return link, nil
}

// onlyPrefix keeps log lines from carrying full phone numbers.
func onlyPrefix(phone string) string {
	phone = strings.TrimFunc(phone, unicode.IsSpace)
	if len(phone) <= 4 {
		return phone
	}
	return phone[:4] + "..."
}
