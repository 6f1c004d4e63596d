package httpclient

import (
	"net"
	"net/http"
	"time"
)

const (
	DefaultTimeout = 30 * time.Second
)

// TuneTransport aplica los límites de dial, pool y handshake de los clientes
// salientes. Se aplica sobre el transport del SDK de AWS, que además carga
// AWS_CA_BUNDLE cuando está definido.
func TuneTransport(tr *http.Transport) {
	tr.DialContext = (&net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	tr.MaxIdleConns = 20
	tr.MaxIdleConnsPerHost = 10
	tr.IdleConnTimeout = 90 * time.Second
	tr.TLSHandshakeTimeout = 5 * time.Second
	tr.ExpectContinueTimeout = time.Second
}
