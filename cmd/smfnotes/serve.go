package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/leandrodaf/smfnotes/sdk/contracts"
	"github.com/leandrodaf/smfnotes/sdk/midi"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const (
	requestIDHeader = "X-Request-Id"
	maxUploadSize   = 32 << 20
	shutdownTimeout = 5 * time.Second
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default $"+addrEnv+" or "+defaultAddr+")")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the decoder over HTTP",
	Long:  `Serve POST /decode, which takes a raw MIDI file body and answers with the decoded tracks as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, opts := setup()
		dec, err := midi.NewDecoder(opts...)
		if err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = listenAddr()
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           newRouter(dec, log),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errc := make(chan error, 1)
		go func() {
			log.Info("Listening", log.Field().String("addr", addr))
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			return err
		case <-cmd.Context().Done():
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("Shutting down")
		if err := srv.Shutdown(ctx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

type server struct {
	decoder contracts.Decoder
	logger  contracts.Logger
}

func newRouter(dec contracts.Decoder, log contracts.Logger) http.Handler {
	s := &server{decoder: dec, logger: log}

	router := mux.NewRouter().StrictSlash(true)
	router.Use(s.requestID)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/decode", s.handleDecode).Methods(http.MethodPost)

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{requestIDHeader},
	}).Handler(router)
}

func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDecode decodes the request body. ?track=N narrows the response to one track.
func (s *server) handleDecode(w http.ResponseWriter, r *http.Request) {
	id := w.Header().Get(requestIDHeader)
	body := http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, err := s.decoder.DecodeFile(body)
	if err != nil {
		s.logger.Warn("Rejected MIDI upload",
			s.logger.Field().String("request_id", id),
			s.logger.Field().Error("error", err))
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if q := r.URL.Query().Get("track"); q != "" {
		number, err := strconv.Atoi(q)
		if err == nil {
			err = selectTrack(file, number)
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	s.logger.Info("Decoded MIDI upload",
		s.logger.Field().String("request_id", id),
		s.logger.Field().Int("tracks", len(file.Tracks)))
	writeJSON(w, http.StatusOK, file)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
