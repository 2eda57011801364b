// Package corpus holds the curated disaster-preparedness knowledge base
// used to seed the vector store on first startup.
package corpus

import "github.com/relief-labs/reliefai/internal/domain"

// Item is one curated knowledge base entry prior to embedding.
type Item struct {
	Content  string
	Category domain.Category
	Metadata map[string]string
}

// Static returns the curated corpus in its declared seeding order.
func Static() []Item {
	return []Item{
		{
			Content:  "During an earthquake, immediately drop to your hands and knees, take cover under a sturdy desk or table, and hold on until the shaking stops. Stay away from windows, mirrors, and heavy objects that could fall.",
			Category: domain.CategoryEarthquake,
			Metadata: map[string]string{"priority": "high", "action_type": "immediate"},
		},
		{
			Content:  "Tsunami evacuation requires immediate movement to higher ground at least 100 feet above sea level or 2 miles inland. Do not wait for official warnings if you feel an earthquake near the coast.",
			Category: domain.CategoryTsunami,
			Metadata: map[string]string{"priority": "critical", "action_type": "evacuation"},
		},
		{
			Content:  "For house fires, use the PASS method with fire extinguishers: Pull the pin, Aim at the base of the flames, Squeeze the handle, and Sweep from side to side. Call emergency services immediately.",
			Category: domain.CategoryFire,
			Metadata: map[string]string{"priority": "high", "action_type": "suppression"},
		},
		{
			Content:  "Emergency kit essentials include 1 gallon of water per person per day for 3 days, non-perishable food for 3 days, battery-powered radio, flashlight, first aid kit, whistle, dust mask, plastic sheeting, moist towelettes, wrench to turn off utilities, and cash.",
			Category: domain.CategoryEmergencyKit,
			Metadata: map[string]string{"priority": "medium", "action_type": "preparation"},
		},
		{
			Content:  "Flood safety: Never walk or drive through flooded roads. Turn around, don't drown. Six inches of moving water can knock you down, and one foot can sweep away a vehicle.",
			Category: domain.CategoryFlood,
			Metadata: map[string]string{"priority": "high", "action_type": "avoidance"},
		},
		{
			Content:  "During a tornado, seek shelter in a basement, storm cellar, or interior room on the lowest floor of a sturdy building. Stay away from windows and cover yourself with a mattress or heavy blankets.",
			Category: domain.CategoryTornado,
			Metadata: map[string]string{"priority": "critical", "action_type": "shelter"},
		},
		{
			Content:  "Hurricane preparation includes boarding up windows, securing outdoor objects, having emergency supplies for at least 7 days, and following official evacuation orders. Never ignore evacuation warnings.",
			Category: domain.CategoryHurricane,
			Metadata: map[string]string{"priority": "high", "action_type": "preparation"},
		},
		{
			Content:  "First aid basics: For bleeding, apply direct pressure with a clean cloth. For burns, run cool water over the area for 10-20 minutes. For broken bones, immobilize the area and seek medical help immediately.",
			Category: domain.CategoryFirstAid,
			Metadata: map[string]string{"priority": "high", "action_type": "medical"},
		},
	}
}

// Validate reports the first invalid item in items, if any.
func Validate(items []Item) error {
	for _, item := range items {
		if item.Content == "" || item.Category == "" {
			return domain.ErrInvalidCorpusItem
		}
	}
	return nil
}
