package reports

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/segmatura/segmatura-core/pkg/scoring"
)

func getFreePort() (port int, err error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return
	}

	ltcp, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return
	}
	defer ltcp.Close()
	port = ltcp.Addr().(*net.TCPAddr).Port
	return
}

//RegisterMetricsTransformer wraps a transformer in a localhost microservice.
//The transformer binary calls this in its main and prints the port so the
//Segmatura service can discover the endpoint
func RegisterMetricsTransformer(transformer MetricsTransformer) (micro MicroService, err error) {

	port, err := getFreePort()
	if err != nil {
		return
	}

	micro.Port = port

	mux := makeHandler(transformer)
	fmt.Printf("port:%d", port)
	server := &http.Server{
		Addr:         fmt.Sprintf("localhost:%d", port),
		Handler:      mux,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	}

	micro.HTTPServer = server

	return

}

func makeHandler(t MetricsTransformer) *http.ServeMux {
	mux := http.NewServeMux()
	mth := metricsTransformHandler{
		transformer: t,
	}
	mux.HandleFunc("/transform", mth.transformMetrics)
	return mux
}

type metricsTransformHandler struct {
	transformer MetricsTransformer
}

func (mth metricsTransformHandler) transformMetrics(w http.ResponseWriter, r *http.Request) {
	var confM ConfigMetrics
	err := json.NewDecoder(r.Body).Decode(&confM)
	if err != nil {
		log.Printf("Error decoding metrics during transform")
	}
	defer r.Body.Close()
	out := mth.transformer.Transform(confM.Config, confM.Overall)
	json.NewEncoder(w).Encode(out)
}

type MicroService struct {
	Port       int
	HTTPServer *http.Server
	ch         chan os.Signal
}

func (m MicroService) ShutDown() {
	m.HTTPServer.Shutdown(context.Background())
}

func (m *MicroService) Start() {
	go func() {
		m.HTTPServer.ListenAndServe()
	}()

	m.ch = make(chan os.Signal)
	signal.Notify(m.ch, os.Interrupt, os.Kill)
	s := <-m.ch
	log.Printf("Shutting Microservice down with signal %v", s)
}

type pluginRunner struct {
	path         string
	transformURL string
}

// Transform implements MetricsTransformer
func (p pluginRunner) Transform(config *Config, overall *scoring.OverallMetrics) *scoring.OverallMetrics {
	data, err := json.Marshal(ConfigMetrics{
		Config:  config,
		Overall: overall,
	})
	if err != nil {
		log.Printf("Error marshalling metrics: %v", err)
		return overall //noop
	}

	resp, err := http.Post(p.transformURL, "application/json; charset=utf-8", bytes.NewBuffer(data))

	if err != nil {
		log.Printf("Error invoking microservice transform endpoint: %v", err)
		return overall //noop
	}

	defer resp.Body.Close()
	out := scoring.OverallMetrics{}

	err = json.NewDecoder(resp.Body).Decode(&out)

	if err != nil {
		log.Printf("Error decoding metrics response: %v", err)
		return overall //noop
	}

	return &out
}

//NewMetricsTransformerPlugin launches the transformer binary at path and
//reads the 'port:<number>' line it prints to discover its transform endpoint
func NewMetricsTransformerPlugin(path string) (MetricsTransformer, error) {
	runner := pluginRunner{
		path: path,
	}

	cmd := exec.Command(path)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return runner, err
	}
	if err := cmd.Start(); err != nil {
		return runner, err
	}

	output, err := bufio.NewReader(stdout).ReadString('\n')
	if err != nil && output == "" {
		return runner, err
	}
	p := strings.Split(output, ":")
	if len(p) != 2 {
		return runner, fmt.Errorf("expecting output 'port:<number>' but got '%s'", output)
	}

	port, err := strconv.Atoi(strings.TrimSpace(p[1]))
	if err != nil {
		return runner, fmt.Errorf("expecting port as a number but got '%s'", p[1])
	}
	runner.transformURL = fmt.Sprintf("http://localhost:%d/transform", port)

	return runner, nil
}
