package store

import "metropolis/internal/city"

// Default sheets, used to seed every store and restored by ResetDefaults.

func DefaultZones() []city.ZoneRecord {
	return []city.ZoneRecord{
		{Zone: "Residential", Count: "6", Income: "250"},
		{Zone: "Commercial", Count: "3", Income: "100"},
		{Zone: "Industrial", Count: "2", Income: "75"},
		{Zone: "School", Count: "2", Income: "20"},
		{Zone: "Hospital", Count: "1", Income: "30"},
	}
}

func DefaultResources() []city.ResourceRecord {
	return []city.ResourceRecord{
		{Name: "Money", Current: "10000", Regen: "0"},
		{Name: "Electricity", Current: "500", Regen: "5"},
		{Name: "Water", Current: "500", Regen: "5"},
	}
}

func DefaultEvents() []city.EventRecord {
	return []city.EventRecord{
		{Description: "A heatwave is drying out the reservoirs", ImpactType: "a water supply reduction", ImpactValue: "-10%", Duration: "3"},
		{Description: "A storm has brought down power lines", ImpactType: "an electricity supply reduction", ImpactValue: "-50", Duration: "2"},
		{Description: "A recession is hitting local businesses", ImpactType: "an income reduction", ImpactValue: "-5%", Duration: "3"},
		{Description: "A burst water main flooded the high street", ImpactType: "a water supply reduction", ImpactValue: "-40", Duration: "1"},
		{Description: "A transit strike has stalled the city", ImpactType: "a transport disruption", ImpactValue: "-20%", Duration: "2"},
	}
}

func recordsFromSnapshot(snapshot []city.ResourceBalance) []city.ResourceRecord {
	out := make([]city.ResourceRecord, 0, len(snapshot))
	for _, b := range snapshot {
		out = append(out, city.ResourceRecord{
			Name:    b.Resource.String(),
			Current: formatFloat(b.Current),
			Regen:   formatFloat(b.Regen),
		})
	}
	return out
}
