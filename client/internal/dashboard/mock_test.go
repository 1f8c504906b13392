package dashboard

type mockConfirmer struct {
	ConfirmFunc func(message string, def bool) (bool, error)
	calls       int
}

func (m *mockConfirmer) Confirm(message string, def bool) (bool, error) {
	m.calls++
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(message, def)
	}
	return def, nil
}

func confirmWith(answer bool, err error) *mockConfirmer {
	return &mockConfirmer{
		ConfirmFunc: func(string, bool) (bool, error) {
			return answer, err
		},
	}
}
