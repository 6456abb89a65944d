package finance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"moneymap/src/models"
)

var ErrInvalidData = errors.New("invalid data")

// snapshot is a possibly partial State. A nil field was absent from the
// imported document.
type snapshot struct {
	Transactions *[]models.Transaction `json:"transactions"`
	Budgets      *[]models.Budget      `json:"budgets"`
	Reminders    *[]models.Reminder    `json:"reminders"`
	Settings     json.RawMessage       `json:"settings"`
	ChatHistory  *[]models.ChatMessage `json:"chatHistory"`

	settings *models.Settings
}

func invalidData(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidData, fmt.Sprintf(format, args...))
}

func strictDecode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("trailing data after snapshot")
	}
	return nil
}

func decodeSnapshot(data []byte) (*snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, invalidData("snapshot must be a JSON object")
	}

	var snap snapshot
	if err := strictDecode(trimmed, &snap); err != nil {
		return nil, invalidData("%v", err)
	}
	if len(snap.Settings) > 0 && !bytes.Equal(snap.Settings, []byte("null")) {
		// Missing settings fields keep their defaults.
		settings := models.DefaultSettings()
		if err := strictDecode(snap.Settings, &settings); err != nil {
			return nil, invalidData("settings: %v", err)
		}
		snap.settings = &settings
	}
	if err := snap.validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *snapshot) validate() error {
	if s.Transactions != nil {
		ids := make(map[string]struct{}, len(*s.Transactions))
		for i, t := range *s.Transactions {
			if err := checkID(ids, t.ID); err != nil {
				return invalidData("transactions[%d]: %v", i, err)
			}
			if err := t.Validate(); err != nil {
				return invalidData("transactions[%d]: %v", i, err)
			}
		}
	}
	if s.Budgets != nil {
		ids := make(map[string]struct{}, len(*s.Budgets))
		for i, b := range *s.Budgets {
			if err := checkID(ids, b.ID); err != nil {
				return invalidData("budgets[%d]: %v", i, err)
			}
			if err := b.Validate(); err != nil {
				return invalidData("budgets[%d]: %v", i, err)
			}
		}
	}
	if s.Reminders != nil {
		ids := make(map[string]struct{}, len(*s.Reminders))
		for i, r := range *s.Reminders {
			if err := checkID(ids, r.ID); err != nil {
				return invalidData("reminders[%d]: %v", i, err)
			}
			if err := r.Validate(); err != nil {
				return invalidData("reminders[%d]: %v", i, err)
			}
		}
	}
	if s.ChatHistory != nil {
		for i, m := range *s.ChatHistory {
			if m.ID == "" || (m.Sender != models.SenderUser && m.Sender != models.SenderAI) {
				return invalidData("chatHistory[%d]: id and a user or ai sender are required", i)
			}
		}
	}
	if s.settings != nil {
		if err := s.settings.Validate(); err != nil {
			return invalidData("settings: %v", err)
		}
	}
	return nil
}

func checkID(seen map[string]struct{}, id string) error {
	if id == "" {
		return errors.New("id is required")
	}
	if _, dup := seen[id]; dup {
		return fmt.Errorf("duplicate id %q", id)
	}
	seen[id] = struct{}{}
	return nil
}

func (s *snapshot) applyTo(st *State) {
	if s.Transactions != nil {
		st.Transactions = nonNil(*s.Transactions)
	}
	if s.Budgets != nil {
		st.Budgets = nonNil(*s.Budgets)
	}
	if s.Reminders != nil {
		st.Reminders = nonNil(*s.Reminders)
	}
	if s.settings != nil {
		st.Settings = *s.settings
	}
	if s.ChatHistory != nil {
		st.ChatHistory = nonNil(*s.ChatHistory)
	}
}

func (s *snapshot) fields() []string {
	var out []string
	if s.Transactions != nil {
		out = append(out, "transactions")
	}
	if s.Budgets != nil {
		out = append(out, "budgets")
	}
	if s.Reminders != nil {
		out = append(out, "reminders")
	}
	if s.settings != nil {
		out = append(out, "settings")
	}
	if s.ChatHistory != nil {
		out = append(out, "chatHistory")
	}
	return out
}

// LoadState decodes a mirrored snapshot into a full State, filling absent
// fields from NewState.
func LoadState(data []byte) (State, error) {
	snap, err := decodeSnapshot(data)
	if err != nil {
		return State{}, err
	}
	st := NewState()
	snap.applyTo(&st)
	return st, nil
}
