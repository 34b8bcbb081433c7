package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/monopoly/game"
	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/models"
	"github.com/wfunc/monopoly/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// StatsService exposes player statistics over net/rpc, for admin
// tooling and cross-server queries.
type StatsService struct {
	playerService *services.PlayerService
}

func NewStatsService(ps *services.PlayerService) *StatsService {
	return &StatsService{playerService: ps}
}

// Register makes the service available on the default rpc server.
func (ss *StatsService) Register() error {
	return rpc.Register(ss)
}

type GetStatsArgs struct {
	Name string
}

type GetStatsReply struct {
	Stats *models.PlayerStats
}

// GetPlayerStats follows the net/rpc signature: exported method, exported
// arguments, second argument is a pointer, return type is error.
func (ss *StatsService) GetPlayerStats(args *GetStatsArgs, reply *GetStatsReply) error {
	stats, err := ss.playerService.GetPlayerWithStats(args.Name)
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}

type GetRoomStateArgs struct {
	RoomID string
}

type GetRoomStateReply struct {
	Snapshot *game.Snapshot
}

// GetRoomState returns the persisted final snapshot of a finished room.
func (ss *StatsService) GetRoomState(args *GetRoomStateArgs, reply *GetRoomStateReply) error {
	snap, err := ss.playerService.LoadRoomSnapshot(args.RoomID)
	if err != nil {
		return err
	}
	reply.Snapshot = snap
	return nil
}
