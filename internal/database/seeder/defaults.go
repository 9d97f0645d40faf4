package seeder

func Defaults(demoEmail, demoPassword string) []Seeder {
	return []Seeder{
		DemoSeeder{Email: demoEmail, Password: demoPassword},
		ScholarshipSeeder{},
	}
}
