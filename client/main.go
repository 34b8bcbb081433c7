package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wfunc/monopoly/network"
)

var (
	addr = flag.String("addr", "localhost:8080", "server address")
	nick = flag.String("nick", "player", "nickname")
)

func send(c *websocket.Conn, msgID uint16, data []byte) error {
	return c.WriteMessage(websocket.BinaryMessage, network.Frame(msgID, data))
}

func sendJSON(c *websocket.Conn, msgID uint16, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return send(c, msgID, data)
}

func main() {
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			packet, err := network.Parse(message)
			if err != nil {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			log.Printf("<- RECV (ID: %d): %s", packet.MsgID, string(packet.Data))
		}
	}()

	log.Println("Commands: create | join <code> | rooms | board | leave | start | roll | buy | upgrade <tile> | bail | end")

	reader := bufio.NewReader(os.Stdin)
	lines := make(chan string)
	go func() {
		for {
			text, err := reader.ReadString('\n')
			if err != nil {
				close(lines)
				return
			}
			lines <- strings.TrimSpace(text)
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		case text, ok := <-lines:
			if !ok {
				return
			}
			if err := handleCommand(c, text); err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}

func handleCommand(c *websocket.Conn, text string) error {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "create":
		return sendJSON(c, network.MsgTypeCreateRoom, map[string]string{"nickname": *nick})
	case "join":
		if len(fields) < 2 {
			log.Println("Usage: join <code>")
			return nil
		}
		return sendJSON(c, network.MsgTypeJoinRoom, map[string]string{
			"nickname": *nick,
			"roomId":   strings.ToUpper(fields[1]),
		})
	case "rooms":
		return send(c, network.MsgTypeGetRooms, []byte{})
	case "board":
		return send(c, network.MsgTypeGetBoard, []byte{})
	case "leave":
		return send(c, network.MsgTypeLeaveRoom, []byte{})
	case "start":
		return send(c, network.MsgTypeStartGame, []byte{})
	case "roll":
		return send(c, network.MsgTypeRollDice, []byte{})
	case "buy":
		return send(c, network.MsgTypeBuyProperty, []byte{})
	case "upgrade":
		if len(fields) < 2 {
			log.Println("Usage: upgrade <tile>")
			return nil
		}
		tile, err := strconv.Atoi(fields[1])
		if err != nil {
			log.Println("Tile must be a number")
			return nil
		}
		return sendJSON(c, network.MsgTypeUpgradeProperty, map[string]int{"tile": tile})
	case "bail":
		return send(c, network.MsgTypePayBail, []byte{})
	case "end":
		return send(c, network.MsgTypeEndTurn, []byte{})
	default:
		log.Printf("Unknown command: %s", fields[0])
		return nil
	}
}
