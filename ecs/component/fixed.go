package component

// Fixed objects ignore the camera.
type Fixed struct{}

var FixedComponent = NewComponent[Fixed]()
