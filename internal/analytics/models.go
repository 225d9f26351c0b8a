package analytics

type RouteAnalytics struct {
	EmployeeID         string  `json:"employeeId"`
	Date               string  `json:"date"`
	Sessions           int     `json:"sessions"`
	TotalDistance      float64 `json:"totalDistance"`
	TotalTime          int64   `json:"totalTime"`
	AverageSpeed       float64 `json:"averageSpeed"`
	FuelConsumed       float64 `json:"fuelConsumed"`
	FuelCost           float64 `json:"fuelCost"`
	ShipmentsCompleted int     `json:"shipmentsCompleted"`
	Efficiency         float64 `json:"efficiency"`
}

type EmployeePerformance struct {
	EmployeeID             string  `json:"employeeId"`
	WorkingDays            int     `json:"workingDays"`
	Sessions               int     `json:"sessions"`
	TotalDistance          float64 `json:"totalDistance"`
	TotalTime              int64   `json:"totalTime"`
	AverageSpeed           float64 `json:"averageSpeed"`
	FuelConsumed           float64 `json:"fuelConsumed"`
	FuelCost               float64 `json:"fuelCost"`
	ShipmentsCompleted     int     `json:"shipmentsCompleted"`
	Efficiency             float64 `json:"efficiency"`
	AverageDistancePerDay  float64 `json:"averageDistancePerDay"`
	AverageShipmentsPerDay float64 `json:"averageShipmentsPerDay"`
}

type TimeBucket struct {
	Period             string  `json:"period"`
	ActiveEmployees    int     `json:"activeEmployees"`
	TotalSessions      int     `json:"totalSessions"`
	TotalDistance      float64 `json:"totalDistance"`
	TotalTime          int64   `json:"totalTime"`
	FuelConsumed       float64 `json:"fuelConsumed"`
	FuelCost           float64 `json:"fuelCost"`
	ShipmentsCompleted int     `json:"shipmentsCompleted"`
}

type FuelEmployeeBreakdown struct {
	EmployeeID    string  `json:"employeeId"`
	FuelConsumed  float64 `json:"fuelConsumed"`
	FuelCost      float64 `json:"fuelCost"`
	TotalDistance float64 `json:"totalDistance"`
}

type FuelVehicleBreakdown struct {
	VehicleType   string  `json:"vehicleType"`
	FuelConsumed  float64 `json:"fuelConsumed"`
	FuelCost      float64 `json:"fuelCost"`
	TotalDistance float64 `json:"totalDistance"`
}

type FuelAnalytics struct {
	TotalFuelConsumed     float64                 `json:"totalFuelConsumed"`
	TotalFuelCost         float64                 `json:"totalFuelCost"`
	TotalDistance         float64                 `json:"totalDistance"`
	AverageFuelEfficiency float64                 `json:"averageFuelEfficiency"`
	AverageFuelPrice      float64                 `json:"averageFuelPrice"`
	ByEmployee            []FuelEmployeeBreakdown `json:"byEmployee"`
	ByVehicleType         []FuelVehicleBreakdown  `json:"byVehicleType"`
}

type TopPerformer struct {
	EmployeeID         string  `json:"employeeId"`
	Value              float64 `json:"value"`
	TotalDistance      float64 `json:"totalDistance"`
	ShipmentsCompleted int     `json:"shipmentsCompleted"`
	FuelConsumed       float64 `json:"fuelConsumed"`
}

type HourlyActivity struct {
	Hour      int `json:"hour"`
	Fixes     int `json:"fixes"`
	Sessions  int `json:"sessions"`
	Employees int `json:"employees"`
}
