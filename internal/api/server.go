// Package api exposes the capture session over an HTTP control surface.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"TrafficScope/internal/engine/capture"
	"TrafficScope/internal/model"
)

// Server routes capture control and snapshot queries to a session.
type Server struct {
	session *capture.Session
	srv     *http.Server
}

// NewServer builds the HTTP server on the given listen address.
func NewServer(addr string, session *capture.Session) *Server {
	s := &Server{session: session}

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/snapshot", s.snapshotHandler).Methods("GET")
	r.HandleFunc("/api/v1/interfaces", s.interfacesHandler).Methods("GET")
	r.HandleFunc("/api/v1/hosts/lists", s.hostListsHandler).Methods("GET")
	r.HandleFunc("/api/v1/capture/start", s.startHandler).Methods("POST")
	r.HandleFunc("/api/v1/capture/stop", s.stopHandler).Methods("POST")

	s.srv = &http.Server{Addr: addr, Handler: r}
	return s
}

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		log.Infof("API server starting on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("API server failed: %v", err)
		}
	}()
}

// Shutdown stops the server, waiting up to five seconds for in-flight
// requests.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// snapshotResponse is the wire form of the cumulative traffic view.
type snapshotResponse struct {
	Running        bool                  `json:"running"`
	TotData        model.DataInfo        `json:"tot_data"`
	DroppedPackets uint32                `json:"dropped_packets"`
	Flows          []model.FlowRecord    `json:"flows"`
	Services       []model.ServiceRecord `json:"services"`
	Hosts          []model.HostRecord    `json:"hosts"`
}

func (s *Server) snapshotHandler(w http.ResponseWriter, r *http.Request) {
	traffic := s.session.Snapshot()
	writeJSON(w, http.StatusOK, snapshotResponse{
		Running:        s.session.Running(),
		TotData:        traffic.TotData,
		DroppedPackets: traffic.DroppedPackets,
		Flows:          traffic.FlowRecords(),
		Services:       traffic.ServiceRecords(),
		Hosts:          traffic.HostRecords(),
	})
}

func (s *Server) interfacesHandler(w http.ResponseWriter, r *http.Request) {
	interfaces, err := capture.ListInterfaces()
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to list interfaces: %v", err), http.StatusInternalServerError)
		return
	}
	type ifaceResponse struct {
		Name        string   `json:"name"`
		Description string   `json:"description,omitempty"`
		Addresses   []string `json:"addresses"`
	}
	out := make([]ifaceResponse, 0, len(interfaces))
	for _, iface := range interfaces {
		addrs := make([]string, 0, len(iface.Addresses))
		for _, a := range iface.Addresses {
			addrs = append(addrs, a.Addr.String())
		}
		out = append(out, ifaceResponse{Name: iface.Name, Description: iface.Description, Addresses: addrs})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) hostListsHandler(w http.ResponseWriter, r *http.Request) {
	domains, asns, countries := s.session.HostLists()
	writeJSON(w, http.StatusOK, map[string][]string{
		"domains":   domains,
		"asns":      asns,
		"countries": countries,
	})
}

// startRequest selects the capture source: a live interface or a file.
type startRequest struct {
	Interface string `json:"interface,omitempty"`
	FilePath  string `json:"file_path,omitempty"`
}

func (s *Server) startHandler(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("failed to decode request: %v", err), http.StatusBadRequest)
		return
	}

	var err error
	switch {
	case req.Interface != "" && req.FilePath != "":
		http.Error(w, "specify either interface or file_path, not both", http.StatusBadRequest)
		return
	case req.Interface != "":
		err = s.session.Start(req.Interface)
	case req.FilePath != "":
		err = s.session.StartFile(req.FilePath)
	default:
		http.Error(w, "interface or file_path is required", http.StatusBadRequest)
		return
	}

	switch {
	case errors.Is(err, capture.ErrAlreadyRunning):
		http.Error(w, err.Error(), http.StatusConflict)
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
	}
}

func (s *Server) stopHandler(w http.ResponseWriter, r *http.Request) {
	err := s.session.Stop()
	switch {
	case errors.Is(err, capture.ErrNotRunning):
		http.Error(w, err.Error(), http.StatusConflict)
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("Failed to encode API response: %v", err)
	}
}
