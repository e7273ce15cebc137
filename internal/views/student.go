package views

import (
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Boltio1992/BottleMessage/internal/store"
	"github.com/Boltio1992/BottleMessage/pkg/types"
)

// JoinForm is the student's code entry form.
type JoinForm struct {
	Code string
}

// HandleJoin resolves the entered code to a session, case
// insensitively. A miss surfaces inline on the join screen; the
// successful path navigates to compose.
func HandleJoin(st *store.Store, form JoinForm) (*types.Session, error) {
	code := strings.TrimSpace(form.Code)
	if code == "" {
		return nil, ErrEmptyCode
	}
	return st.GetSession(code)
}

// ComposeForm is the student's message form.
type ComposeForm struct {
	ParticipantID string
	DisplayName   string
	Anonymous     bool
	Option        string
	Text          string
}

// Input converts the form into a store-ready submission. Anonymous
// submissions drop the display name entirely.
func (f ComposeForm) Input() types.MessageInput {
	name := strings.TrimSpace(f.DisplayName)
	if f.Anonymous {
		name = ""
	}
	return types.MessageInput{
		ParticipantID:  f.ParticipantID,
		DisplayName:    name,
		Anonymous:      f.Anonymous,
		SelectedOption: f.Option,
		Text:           strings.TrimSpace(f.Text),
	}
}

// HandleCompose validates the form against the session's mode and
// submits it. Validation errors surface inline; capacity and closed
// rejections are recoverable and rendered as notices.
func HandleCompose(st *store.Store, code string, form ComposeForm) (*types.Message, error) {
	session, err := st.GetSession(code)
	if err != nil {
		return nil, err
	}

	input := form.Input()
	if err := input.Validate(session.Mode); err != nil {
		log.Debug().Err(err).Str("code", session.Code).Msg("compose form rejected")
		return nil, err
	}
	return st.AddMessage(session.Code, input)
}

// RenderCompose writes the compose screen for a session: the prompt
// and option labels in question mode, an open invitation otherwise.
func RenderCompose(out io.Writer, session *types.Session) {
	if session.Mode == types.ModeQuestion {
		_, _ = io.WriteString(out, "== "+session.Prompt+" ==\n")
		_, _ = io.WriteString(out, "[A] "+session.OptionA+"   [B] "+session.OptionB+"\n")
		return
	}
	_, _ = io.WriteString(out, "== Share your thoughts ==\n")
}

// RenderSubmitted writes the confirmation screen, echoing the bottle
// the message became.
func RenderSubmitted(out io.Writer, msg *types.Message) {
	from := msg.DisplayName
	if msg.Anonymous || from == "" {
		from = "Anonymous"
	}
	_, _ = io.WriteString(out, "Your bottle is in the ocean!\n")
	_, _ = io.WriteString(out, "from: "+from+"  color: "+msg.Color+"  words: "+strconv.Itoa(msg.WordCount)+"\n")
}
