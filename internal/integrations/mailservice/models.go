package mailservice

// Message исходящее письмо
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// SendResponse ответ сервиса рассылки
type SendResponse struct {
	ID string `json:"id"`
}
