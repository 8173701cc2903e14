package prc

type vehiclePayload struct {
	Texture string `json:"Texture"`
	Name    string `json:"Name"`
	Owner   string `json:"Owner"`
}

// Vehicle is a spawned vehicle. The API reports the owner by display name
// only.
type Vehicle struct {
	Name      string
	Texture   string
	OwnerName string

	server *Server
}

func newVehicle(s *Server, data vehiclePayload) *Vehicle {
	return &Vehicle{
		Name:      data.Name,
		Texture:   data.Texture,
		OwnerName: data.Owner,
		server:    s,
	}
}

// Owner resolves the owning player against the server player cache, nil
// when they are not known.
func (v *Vehicle) Owner() *ServerPlayer {
	return v.server.findPlayer(0, v.OwnerName)
}
