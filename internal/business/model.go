package business

// Business holds the tenant profile the chat engine reads when answering
// visitors: the practice name, the treatments it offers, and how to reach it.
type Business struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Services []string `json:"services"`
	Phone    string   `json:"phone"`
	Email    string   `json:"email"`
	Address  string   `json:"address"`
}
