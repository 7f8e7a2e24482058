package aqt

// DefaultEndpoint is the AQT Arnica API root.
const DefaultEndpoint = "https://arnica.aqt.eu/api/v1/"

// Resource identifiers of the AQT simulators.
const (
	ResourceSimulator      = "simulator_no_noise"
	ResourceNoisySimulator = "simulator_noise"
)

// Device describes where and on what a circuit is executed.
type Device interface {
	// RemoteHost is the API root the resource is reached through.
	RemoteHost() string
	// NumberQubits is the qubit count of every submitted circuit.
	NumberQubits() int
	// ResourceID names the resource on the remote host.
	ResourceID() string
	// IsHTTPS reports whether only https endpoints may be contacted.
	IsHTTPS() bool
}

// AqtDevice is the default AQT resource on the Arnica API.
type AqtDevice struct {
	Qubits int
}

// NewAqtDevice returns an AqtDevice with the given number of qubits.
func NewAqtDevice(numberQubits int) AqtDevice { return AqtDevice{Qubits: numberQubits} }

func (d AqtDevice) RemoteHost() string { return DefaultEndpoint }
func (d AqtDevice) NumberQubits() int  { return d.Qubits }
func (d AqtDevice) ResourceID() string { return ResourceNoisySimulator }
func (d AqtDevice) IsHTTPS() bool      { return true }

// SimulatorDevice is the noise-free AQT simulator.
type SimulatorDevice struct {
	Qubits int
}

// NewSimulatorDevice returns a SimulatorDevice with the given number of qubits.
func NewSimulatorDevice(numberQubits int) SimulatorDevice {
	return SimulatorDevice{Qubits: numberQubits}
}

func (d SimulatorDevice) RemoteHost() string { return DefaultEndpoint }
func (d SimulatorDevice) NumberQubits() int  { return d.Qubits }
func (d SimulatorDevice) ResourceID() string { return ResourceSimulator }
func (d SimulatorDevice) IsHTTPS() bool      { return true }

// NoisySimulatorDevice is the AQT simulator with a noise model.
type NoisySimulatorDevice struct {
	Qubits int
}

// NewNoisySimulatorDevice returns a NoisySimulatorDevice with the given number of qubits.
func NewNoisySimulatorDevice(numberQubits int) NoisySimulatorDevice {
	return NoisySimulatorDevice{Qubits: numberQubits}
}

func (d NoisySimulatorDevice) RemoteHost() string { return DefaultEndpoint }
func (d NoisySimulatorDevice) NumberQubits() int  { return d.Qubits }
func (d NoisySimulatorDevice) ResourceID() string { return ResourceNoisySimulator }
func (d NoisySimulatorDevice) IsHTTPS() bool      { return true }

// CustomDevice points at an arbitrary endpoint and resource, e.g. a local
// test gateway.
type CustomDevice struct {
	Endpoint string
	Resource string
	Qubits   int
	HTTPS    bool
}

func (d CustomDevice) RemoteHost() string { return d.Endpoint }
func (d CustomDevice) NumberQubits() int  { return d.Qubits }
func (d CustomDevice) ResourceID() string { return d.Resource }
func (d CustomDevice) IsHTTPS() bool      { return d.HTTPS }

// DeviceFor returns the catalogue device for a resource id on the default
// endpoint, or a CustomDevice when endpoint differs from DefaultEndpoint or
// the resource is unknown.
func DeviceFor(endpoint, resource string, numberQubits int) Device {
	if endpoint == "" || endpoint == DefaultEndpoint {
		switch resource {
		case ResourceSimulator:
			return NewSimulatorDevice(numberQubits)
		case ResourceNoisySimulator, "":
			return NewNoisySimulatorDevice(numberQubits)
		}
		endpoint = DefaultEndpoint
	}
	return CustomDevice{
		Endpoint: endpoint,
		Resource: resource,
		Qubits:   numberQubits,
		HTTPS:    isHTTPSURL(endpoint),
	}
}
