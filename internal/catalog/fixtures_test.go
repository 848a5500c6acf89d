package catalog

import (
	"mealcatalog/internal/model"
)

type mealOpt func(*model.Meal)

func rating(v float64) mealOpt { return func(m *model.Meal) { m.Rating = &v } }
func delivery(v int) mealOpt { return func(m *model.Meal) { m.DeliveryMinutes = &v } }
func experience(v int) mealOpt { return func(m *model.Meal) { m.ChefExperienceYears = &v } }
func category(v string) mealOpt { return func(m *model.Meal) { m.Category = &v } }
func chef(v string) mealOpt { return func(m *model.Meal) { m.ChefName = v } }
func ingredients(v ...string) mealOpt { return func(m *model.Meal) { m.Ingredients = v } }

func meal(id, name string, price float64, opts ...mealOpt) model.Meal {
	m := model.Meal{ID: id, Name: name, Price: price}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func ids(meals []model.Meal) []string {
	out := make([]string, len(meals))
	for i, m := range meals {
		out[i] = m.ID
	}
	return out
}

// sampleMeals covers every optional field being present and absent.
func sampleMeals() []model.Meal {
	return []model.Meal{
		meal("m1", "Pizza Margherita", 12, rating(4.2), delivery(25), experience(6), category("Italian"), chef("Luigi Rossi"), ingredients("tomato", "mozzarella", "basil")),
		meal("m2", "Pasta Carbonara", 15, rating(4.8), delivery(35), experience(12), category("Italian"), chef("Maria Bianchi"), ingredients("spaghetti", "egg", "pancetta")),
		meal("m3", "Chicken Tikka Masala", 14, rating(4.5), delivery(40), experience(8), category("Indian"), chef("Arjun Patel"), ingredients("chicken", "yogurt", "garam masala")),
		meal("m4", "Mexican-style Salad", 9, rating(3.6), delivery(15), experience(2), category("Healthy"), chef("Ana Lopez"), ingredients("corn", "black beans", "lime")),
		meal("m5", "Beef Tacos", 11, rating(4.1), delivery(20), experience(4), category("Mexican"), chef("Carlos Ruiz"), ingredients("beef", "tortilla", "salsa")),
		meal("m6", "Sushi Platter", 28, rating(4.9), delivery(55), experience(15), category("Japanese"), chef("Kenji Sato"), ingredients("rice", "salmon", "tuna", "nori")),
		meal("m7", "Veggie Burger", 10, chef("Sam Green"), ingredients("black beans", "bun", "lettuce")),
		meal("m8", "Pad Thai", 13, rating(3.2), delivery(50), experience(3), chef("Niran Chai"), ingredients("rice noodles", "peanut", "tamarind")),
		meal("m9", "Margherita Flatbread", 8, rating(3.9), experience(1), category("italian"), chef("Luigi Rossi"), ingredients("flour", "tomato")),
		meal("m10", "Ramen Bowl", 16, rating(4.4), delivery(30), category("Japanese"), chef("Kenji Sato"), ingredients("noodles", "pork", "egg")),
		meal("m11", "Falafel Wrap", 7, rating(4.0), delivery(10), experience(5), category("Middle Eastern"), chef("Layla Haddad"), ingredients("chickpeas", "tahini", "pita")),
		meal("m12", "Tiramisu", 6, rating(4.7), delivery(45), experience(10), category("Dessert"), chef("Maria Bianchi"), ingredients("mascarpone", "espresso", "cocoa")),
	}
}
