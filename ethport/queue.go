package ethport

import "fmt"

// Queue identifies a hardware queue on a port.
type Queue struct {
	Port  uint16 `json:"port"`
	Queue uint16 `json:"queue"`
}

func (q Queue) String() string {
	return fmt.Sprintf("%d-%d", q.Port, q.Queue)
}
