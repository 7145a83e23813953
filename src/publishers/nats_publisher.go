package publishers

import (
	"fmt"
	"sync"
	"time"

	"live-indices/src/interfaces"
	"live-indices/src/logger"
	"live-indices/src/models"

	"github.com/nats-io/nats.go"
)

// -----------------------------------------------------------------------------
// NATSPublisher ships reconciled display and card records to NATS.
// Subjects: <prefix>.display.<entity> and <prefix>.card.<entity>.
// -----------------------------------------------------------------------------

type NATSPublisher struct {
	name   string
	config *models.MNATSConfig
	logger *logger.Logger

	useJetStream bool

	mu sync.RWMutex

	nc         *nats.Conn            // NATS core connection
	js         nats.JetStreamContext // JetStream context (if enabled)
	serializer interfaces.ISerializer

	// send delivers one serialized record; set by Connect
	send func(subject string, data []byte) error
	// jetStream opens the JetStream context of a fresh connection
	jetStream func(nc *nats.Conn) (nats.JetStreamContext, error)

	connected bool
}

// -----------------------------------------------------------------------------

func NewNATSPublisher(config *models.MNATSConfig, logger *logger.Logger, serializer interfaces.ISerializer) *NATSPublisher {
	return &NATSPublisher{
		name:       config.ClientID,
		config:     config,
		logger:     logger,
		serializer: serializer,
		jetStream:  openJetStream,
	}
}

func openJetStream(nc *nats.Conn) (nats.JetStreamContext, error) {
	return nc.JetStream()
}

// -----------------------------------------------------------------------------

// PublishDisplay sends the detail panel record of one entity.
func (np *NATSPublisher) PublishDisplay(rec models.MDisplayRecord) error {
	return np.publishRecord("display."+rec.Entity, rec)
}

// -----------------------------------------------------------------------------

// PublishCard sends the summary card record of one entity.
func (np *NATSPublisher) PublishCard(rec models.MCardRecord) error {
	return np.publishRecord("card."+rec.Entity, rec)
}

// -----------------------------------------------------------------------------

func (np *NATSPublisher) publishRecord(subject string, rec any) error {
	data, err := np.serializer.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%s : failed to serialize %s: %w", np.name, subject, err)
	}

	np.mu.RLock()
	send, connected := np.send, np.connected
	np.mu.RUnlock()

	if !connected || send == nil {
		return fmt.Errorf("nats client not connected")
	}
	return send(np.getSubject(subject), data)
}

// -----------------------------------------------------------------------------

// Connect establishes the NATS connection and the JetStream context if configured.
func (np *NATSPublisher) Connect() error {
	np.mu.Lock()
	defer np.mu.Unlock()

	if np.nc != nil && np.nc.IsConnected() {
		return nil
	}

	opts := []nats.Option{
		nats.Name(np.config.ClientID),
		nats.MaxReconnects(np.config.MaxReconnects),

		// Connection Event Handlers
		nats.RetryOnFailedConnect(true),
		nats.ClosedHandler(func(nc *nats.Conn) {
			np.logger.Warning("%s : NATS connection closed", np.name)
			np.setConnected(false)
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			np.logger.Warning("%s : NATS disconnected, attempting reconnect: %v", np.name, err)
			np.setConnected(false)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			np.logger.Info("%s : NATS reconnected to %s", np.name, nc.ConnectedUrl())
			np.setConnected(true)
		}),
	}
	if np.config.ConnectTimeoutSecond > 0 {
		opts = append(opts, nats.Timeout(time.Duration(np.config.ConnectTimeoutSecond)*time.Second))
	}
	if np.config.ReconnectWaitSecond > 0 {
		opts = append(opts, nats.ReconnectWait(time.Duration(np.config.ReconnectWaitSecond)*time.Second))
	}

	nc, err := nats.Connect(np.config.URL, opts...)
	if err != nil {
		return fmt.Errorf("nats connection failed: %w", err)
	}
	np.nc = nc
	np.send = nc.Publish
	np.connected = true
	np.logger.Info("%s : connected to NATS at %s", np.name, np.config.URL)

	if np.config.JetStream != nil && np.config.JetStream.Enabled {
		np.js, err = np.jetStream(nc)
		if err != nil {
			np.closeLocked()
			return fmt.Errorf("jetstream context creation failed: %w", err)
		}
		js := np.js
		np.useJetStream = true
		np.send = func(subject string, data []byte) error {
			_, err := js.Publish(subject, data)
			return err
		}

		if err := np.ensureStreamExists(); err != nil {
			np.logger.Warning("%s : failed to ensure stream exists: %v (continuing anyway)", np.name, err)
		}
		np.logger.Info("%s : publishing through JetStream", np.name)
	}

	return nil
}

// -----------------------------------------------------------------------------

// ensureStreamExists creates the configured stream when missing.
func (np *NATSPublisher) ensureStreamExists() error {
	cfg := np.config.JetStream
	if cfg.StreamName == "" {
		return fmt.Errorf("stream name not configured")
	}

	if _, err := np.js.StreamInfo(cfg.StreamName); err == nil {
		return nil
	}

	subjects := cfg.Subjects
	if len(subjects) == 0 {
		subjects = []string{np.getSubject(">")}
	}
	maxAge := time.Duration(cfg.MaxAgeHours) * time.Hour
	if maxAge == 0 {
		maxAge = 24 * time.Hour
	}

	_, err := np.js.AddStream(&nats.StreamConfig{
		Name:      cfg.StreamName,
		Subjects:  subjects,
		Retention: nats.LimitsPolicy,
		Storage:   nats.FileStorage,
		MaxAge:    maxAge,
		Discard:   nats.DiscardOld,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream '%s': %w", cfg.StreamName, err)
	}
	np.logger.Info("%s : created JetStream stream '%s' on %v", np.name, cfg.StreamName, subjects)
	return nil
}

// -----------------------------------------------------------------------------

// Close drains pending records and closes the connection.
func (np *NATSPublisher) Close() {
	np.mu.Lock()
	defer np.mu.Unlock()

	if np.nc != nil && !np.nc.IsClosed() {
		if err := np.nc.Drain(); err != nil {
			np.nc.Close()
		}
		np.logger.Info("%s : NATS connection closed", np.name)
	}
	np.closeLocked()
}

// closeLocked forgets the connection, closing it if still open. Caller holds mu.
func (np *NATSPublisher) closeLocked() {
	if np.nc != nil && !np.nc.IsClosed() && !np.nc.IsDraining() {
		np.nc.Close()
	}
	np.nc = nil
	np.js = nil
	np.send = nil
	np.connected = false
	np.useJetStream = false
}

// -----------------------------------------------------------------------------

// IsConnected returns connection status
func (np *NATSPublisher) IsConnected() bool {
	np.mu.RLock()
	defer np.mu.RUnlock()
	return np.connected
}

// UsesJetStream reports whether records go to a persistent stream.
func (np *NATSPublisher) UsesJetStream() bool {
	np.mu.RLock()
	defer np.mu.RUnlock()
	return np.useJetStream
}

// -----------------------------------------------------------------------------

// setConnected is called from NATS handler goroutines.
func (np *NATSPublisher) setConnected(status bool) {
	np.mu.Lock()
	np.connected = status && np.send != nil
	np.mu.Unlock()
}

// -----------------------------------------------------------------------------

// getSubject prepends the configured subject prefix if it exists.
func (np *NATSPublisher) getSubject(subject string) string {
	if np.config.SubjectPrefix != "" {
		return fmt.Sprintf("%s.%s", np.config.SubjectPrefix, subject)
	}
	return subject
}
