package player

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Player is the human seat of a session.
type Player struct {
	ID   string
	Conn Connection
}

func NewPlayer(id string, conn Connection) *Player {
	return &Player{ID: id, Conn: conn}
}
