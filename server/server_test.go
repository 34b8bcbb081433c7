package server

import (
	"encoding/json"
	"testing"

	"github.com/wfunc/monopoly/board"
)

func TestBoardPayload(t *testing.T) {
	payload := boardPayload()

	if payload.Version != board.Version {
		t.Errorf("Expected board version %d, got %d", board.Version, payload.Version)
	}
	if len(payload.Tiles) != board.Size {
		t.Fatalf("Expected %d tiles, got %d", board.Size, len(payload.Tiles))
	}
	if len(payload.Chance) != board.DeckSize(board.DeckChance) {
		t.Errorf("Expected %d chance cards, got %d", board.DeckSize(board.DeckChance), len(payload.Chance))
	}
	if len(payload.Chest) != board.DeckSize(board.DeckChest) {
		t.Errorf("Expected %d chest cards, got %d", board.DeckSize(board.DeckChest), len(payload.Chest))
	}
	if payload.Tiles[board.GoToJailIndex].Name != "Go To Jail" {
		t.Errorf("Unexpected tile at go-to-jail corner: %+v", payload.Tiles[board.GoToJailIndex])
	}

	if _, err := json.Marshal(payload); err != nil {
		t.Fatalf("Board payload should marshal: %v", err)
	}
}
