package response

type Chat struct {
	Response string `json:"response"`
}
