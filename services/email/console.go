package emailsvc

import (
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"sync"

	"github.com/trezcool/idara/core"
)

// consoleService writes messages to a writer instead of sending them; used
// in dev mode and tests.
type consoleService struct {
	out  io.Writer
	mux  sync.Mutex
	sent []core.EmailMessage // retained in mock mode for assertions
	mock bool
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService() *consoleService {
	return &consoleService{out: os.Stdout}
}

// NewConsoleServiceMock records sent messages synchronously for tests.
func NewConsoleServiceMock() *consoleService {
	return &consoleService{out: io.Discard, mock: true}
}

func (svc *consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		if !(msg.HasRecipients() && msg.HasContent()) {
			continue
		}
		svc.mux.Lock()
		if svc.mock {
			svc.sent = append(svc.sent, *msg)
		}
		fmt.Fprintf(svc.out, "To: %s\nSubject: %s\n\n%s\n\n", joinAddrs(msg.To), msg.Subject, msg.BodyStr)
		svc.mux.Unlock()
	}
}

// SentMessages returns the messages recorded in mock mode.
func (svc *consoleService) SentMessages() []core.EmailMessage {
	svc.mux.Lock()
	defer svc.mux.Unlock()
	return append([]core.EmailMessage(nil), svc.sent...)
}

func joinAddrs(addrs []mail.Address) string {
	strs := make([]string, 0, len(addrs))
	for _, a := range addrs {
		strs = append(strs, a.String())
	}
	return strings.Join(strs, ", ")
}
