package session

// PromptKind identifies the closed set of modal prompts the coordinator can
// raise. Prompts carry data only; the coordinator dispatches on the kind
// and choice to decide the next transition.
type PromptKind string

const (
	// PromptSaveConfirm asks whether to save, discard or keep a dirty
	// document before replacing it with a new one.
	PromptSaveConfirm PromptKind = "save-confirm"
	// PromptOpenNonText asks whether to open content that does not look
	// like text.
	PromptOpenNonText PromptKind = "open-non-text"
	// PromptNotice is a one-button acknowledgement (success or error).
	PromptNotice PromptKind = "notice"
	// PromptExitConfirm is the exit-confirmation toast.
	PromptExitConfirm PromptKind = "exit-confirm"
)

// Choice is a user answer to a prompt.
type Choice string

const (
	ChoiceSave    Choice = "save"
	ChoiceDiscard Choice = "discard"
	ChoiceAccept  Choice = "accept"
	ChoiceCancel  Choice = "cancel"
	ChoiceOK      Choice = "ok"
	ChoiceExit    Choice = "exit"
)

// NoticeLevel distinguishes success notices from error notices.
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Prompt describes a modal decision awaiting the user.
type Prompt struct {
	Kind    PromptKind
	Message string
	Level   NoticeLevel // set for PromptNotice only
	Choices []Choice

	// Load holds the already-read content for PromptOpenNonText; accepting
	// applies it, rejecting discards it.
	Load *PendingLoad

	// NextDocumentName is the reset target for PromptSaveConfirm.
	NextDocumentName string
}

// PendingLoad is the content of a document read from storage but not yet
// applied to the session.
type PendingLoad struct {
	Locator     string
	DisplayName string
	Content     string
	MIMEType    string
}

// PendingSave records an interactive save waiting for a target locator,
// with an optional chained new-document reset to run after it succeeds.
type PendingSave struct {
	NextDocumentName string
}

func infoNotice(message string) *Prompt {
	return &Prompt{Kind: PromptNotice, Message: message, Level: NoticeInfo, Choices: []Choice{ChoiceOK}}
}

func errorNotice(message string) *Prompt {
	return &Prompt{Kind: PromptNotice, Message: message, Level: NoticeError, Choices: []Choice{ChoiceOK}}
}

// allows reports whether choice is one of the prompt's offered choices.
func (p *Prompt) allows(choice Choice) bool {
	for _, c := range p.Choices {
		if c == choice {
			return true
		}
	}
	return false
}
