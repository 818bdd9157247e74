package teamindex

// currentSeasons are the seasons confirmed to use the EraCurrent ordering.
var currentSeasons = map[string]bool{
	"2022-23": true,
	"2023-24": true,
	"2024-25": true,
}

// Team lists in snapshot row order.
var eraTeams = map[Era][]Team{
	Era2010: {
		{Name: "Atlanta Hawks", Nickname: "Hawks"},
		{Name: "Boston Celtics", Nickname: "Celtics"},
		{Name: "Charlotte Bobcats", Nickname: "Bobcats"},
		{Name: "Chicago Bulls", Nickname: "Bulls"},
		{Name: "Cleveland Cavaliers", Nickname: "Cavaliers"},
		{Name: "Dallas Mavericks", Nickname: "Mavericks"},
		{Name: "Denver Nuggets", Nickname: "Nuggets"},
		{Name: "Detroit Pistons", Nickname: "Pistons"},
		{Name: "Golden State Warriors", Nickname: "Warriors"},
		{Name: "Houston Rockets", Nickname: "Rockets"},
		{Name: "Indiana Pacers", Nickname: "Pacers"},
		{Name: "Los Angeles Clippers", Nickname: "Clippers", Aliases: []string{"LA Clippers"}},
		{Name: "Los Angeles Lakers", Nickname: "Lakers"},
		{Name: "Memphis Grizzlies", Nickname: "Grizzlies"},
		{Name: "Miami Heat", Nickname: "Heat"},
		{Name: "Milwaukee Bucks", Nickname: "Bucks"},
		{Name: "Minnesota Timberwolves", Nickname: "Timberwolves"},
		{Name: "New Jersey Nets", Nickname: "Nets"},
		{Name: "New Orleans Hornets", Nickname: "Hornets"},
		{Name: "New York Knicks", Nickname: "Knicks"},
		{Name: "Oklahoma City Thunder", Nickname: "Thunder"},
		{Name: "Orlando Magic", Nickname: "Magic"},
		{Name: "Philadelphia 76ers", Nickname: "76ers"},
		{Name: "Phoenix Suns", Nickname: "Suns"},
		{Name: "Portland Trail Blazers", Nickname: "Trail Blazers"},
		{Name: "Sacramento Kings", Nickname: "Kings"},
		{Name: "San Antonio Spurs", Nickname: "Spurs"},
		{Name: "Toronto Raptors", Nickname: "Raptors"},
		{Name: "Utah Jazz", Nickname: "Jazz"},
		{Name: "Washington Wizards", Nickname: "Wizards"},
	},
	Era2012: {
		{Name: "Atlanta Hawks", Nickname: "Hawks"},
		{Name: "Boston Celtics", Nickname: "Celtics"},
		{Name: "Brooklyn Nets", Nickname: "Nets"},
		{Name: "Charlotte Bobcats", Nickname: "Bobcats"},
		{Name: "Chicago Bulls", Nickname: "Bulls"},
		{Name: "Cleveland Cavaliers", Nickname: "Cavaliers"},
		{Name: "Dallas Mavericks", Nickname: "Mavericks"},
		{Name: "Denver Nuggets", Nickname: "Nuggets"},
		{Name: "Detroit Pistons", Nickname: "Pistons"},
		{Name: "Golden State Warriors", Nickname: "Warriors"},
		{Name: "Houston Rockets", Nickname: "Rockets"},
		{Name: "Indiana Pacers", Nickname: "Pacers"},
		{Name: "Los Angeles Clippers", Nickname: "Clippers", Aliases: []string{"LA Clippers"}},
		{Name: "Los Angeles Lakers", Nickname: "Lakers"},
		{Name: "Memphis Grizzlies", Nickname: "Grizzlies"},
		{Name: "Miami Heat", Nickname: "Heat"},
		{Name: "Milwaukee Bucks", Nickname: "Bucks"},
		{Name: "Minnesota Timberwolves", Nickname: "Timberwolves"},
		{Name: "New Orleans Hornets", Nickname: "Hornets"},
		{Name: "New York Knicks", Nickname: "Knicks"},
		{Name: "Oklahoma City Thunder", Nickname: "Thunder"},
		{Name: "Orlando Magic", Nickname: "Magic"},
		{Name: "Philadelphia 76ers", Nickname: "76ers"},
		{Name: "Phoenix Suns", Nickname: "Suns"},
		{Name: "Portland Trail Blazers", Nickname: "Trail Blazers"},
		{Name: "Sacramento Kings", Nickname: "Kings"},
		{Name: "San Antonio Spurs", Nickname: "Spurs"},
		{Name: "Toronto Raptors", Nickname: "Raptors"},
		{Name: "Utah Jazz", Nickname: "Jazz"},
		{Name: "Washington Wizards", Nickname: "Wizards"},
	},
	Era2013: {
		{Name: "Atlanta Hawks", Nickname: "Hawks"},
		{Name: "Boston Celtics", Nickname: "Celtics"},
		{Name: "Brooklyn Nets", Nickname: "Nets"},
		{Name: "Charlotte Bobcats", Nickname: "Bobcats"},
		{Name: "Chicago Bulls", Nickname: "Bulls"},
		{Name: "Cleveland Cavaliers", Nickname: "Cavaliers"},
		{Name: "Dallas Mavericks", Nickname: "Mavericks"},
		{Name: "Denver Nuggets", Nickname: "Nuggets"},
		{Name: "Detroit Pistons", Nickname: "Pistons"},
		{Name: "Golden State Warriors", Nickname: "Warriors"},
		{Name: "Houston Rockets", Nickname: "Rockets"},
		{Name: "Indiana Pacers", Nickname: "Pacers"},
		{Name: "Los Angeles Clippers", Nickname: "Clippers", Aliases: []string{"LA Clippers"}},
		{Name: "Los Angeles Lakers", Nickname: "Lakers"},
		{Name: "Memphis Grizzlies", Nickname: "Grizzlies"},
		{Name: "Miami Heat", Nickname: "Heat"},
		{Name: "Milwaukee Bucks", Nickname: "Bucks"},
		{Name: "Minnesota Timberwolves", Nickname: "Timberwolves"},
		{Name: "New Orleans Pelicans", Nickname: "Pelicans"},
		{Name: "New York Knicks", Nickname: "Knicks"},
		{Name: "Oklahoma City Thunder", Nickname: "Thunder"},
		{Name: "Orlando Magic", Nickname: "Magic"},
		{Name: "Philadelphia 76ers", Nickname: "76ers"},
		{Name: "Phoenix Suns", Nickname: "Suns"},
		{Name: "Portland Trail Blazers", Nickname: "Trail Blazers"},
		{Name: "Sacramento Kings", Nickname: "Kings"},
		{Name: "San Antonio Spurs", Nickname: "Spurs"},
		{Name: "Toronto Raptors", Nickname: "Raptors"},
		{Name: "Utah Jazz", Nickname: "Jazz"},
		{Name: "Washington Wizards", Nickname: "Wizards"},
	},
	Era2014: {
		{Name: "Atlanta Hawks", Nickname: "Hawks"},
		{Name: "Boston Celtics", Nickname: "Celtics"},
		{Name: "Brooklyn Nets", Nickname: "Nets"},
		{Name: "Charlotte Hornets", Nickname: "Hornets"},
		{Name: "Chicago Bulls", Nickname: "Bulls"},
		{Name: "Cleveland Cavaliers", Nickname: "Cavaliers"},
		{Name: "Dallas Mavericks", Nickname: "Mavericks"},
		{Name: "Denver Nuggets", Nickname: "Nuggets"},
		{Name: "Detroit Pistons", Nickname: "Pistons"},
		{Name: "Golden State Warriors", Nickname: "Warriors"},
		{Name: "Houston Rockets", Nickname: "Rockets"},
		{Name: "Indiana Pacers", Nickname: "Pacers"},
		{Name: "Los Angeles Clippers", Nickname: "Clippers", Aliases: []string{"LA Clippers"}},
		{Name: "Los Angeles Lakers", Nickname: "Lakers"},
		{Name: "Memphis Grizzlies", Nickname: "Grizzlies"},
		{Name: "Miami Heat", Nickname: "Heat"},
		{Name: "Milwaukee Bucks", Nickname: "Bucks"},
		{Name: "Minnesota Timberwolves", Nickname: "Timberwolves"},
		{Name: "New Orleans Pelicans", Nickname: "Pelicans"},
		{Name: "New York Knicks", Nickname: "Knicks"},
		{Name: "Oklahoma City Thunder", Nickname: "Thunder"},
		{Name: "Orlando Magic", Nickname: "Magic"},
		{Name: "Philadelphia 76ers", Nickname: "76ers"},
		{Name: "Phoenix Suns", Nickname: "Suns"},
		{Name: "Portland Trail Blazers", Nickname: "Trail Blazers"},
		{Name: "Sacramento Kings", Nickname: "Kings"},
		{Name: "San Antonio Spurs", Nickname: "Spurs"},
		{Name: "Toronto Raptors", Nickname: "Raptors"},
		{Name: "Utah Jazz", Nickname: "Jazz"},
		{Name: "Washington Wizards", Nickname: "Wizards"},
	},
	EraCurrent: {
		{Name: "Atlanta Hawks", Nickname: "Hawks"},
		{Name: "Boston Celtics", Nickname: "Celtics"},
		{Name: "Brooklyn Nets", Nickname: "Nets"},
		{Name: "Charlotte Hornets", Nickname: "Hornets"},
		{Name: "Chicago Bulls", Nickname: "Bulls"},
		{Name: "Cleveland Cavaliers", Nickname: "Cavaliers"},
		{Name: "Dallas Mavericks", Nickname: "Mavericks"},
		{Name: "Denver Nuggets", Nickname: "Nuggets"},
		{Name: "Detroit Pistons", Nickname: "Pistons"},
		{Name: "Golden State Warriors", Nickname: "Warriors"},
		{Name: "Houston Rockets", Nickname: "Rockets"},
		{Name: "Indiana Pacers", Nickname: "Pacers"},
		{Name: "LA Clippers", Nickname: "Clippers", Aliases: []string{"Los Angeles Clippers"}},
		{Name: "Los Angeles Lakers", Nickname: "Lakers"},
		{Name: "Memphis Grizzlies", Nickname: "Grizzlies"},
		{Name: "Miami Heat", Nickname: "Heat"},
		{Name: "Milwaukee Bucks", Nickname: "Bucks"},
		{Name: "Minnesota Timberwolves", Nickname: "Timberwolves"},
		{Name: "New Orleans Pelicans", Nickname: "Pelicans"},
		{Name: "New York Knicks", Nickname: "Knicks"},
		{Name: "Oklahoma City Thunder", Nickname: "Thunder"},
		{Name: "Orlando Magic", Nickname: "Magic"},
		{Name: "Philadelphia 76ers", Nickname: "76ers"},
		{Name: "Phoenix Suns", Nickname: "Suns"},
		{Name: "Portland Trail Blazers", Nickname: "Trail Blazers"},
		{Name: "Sacramento Kings", Nickname: "Kings"},
		{Name: "San Antonio Spurs", Nickname: "Spurs"},
		{Name: "Toronto Raptors", Nickname: "Raptors"},
		{Name: "Utah Jazz", Nickname: "Jazz"},
		{Name: "Washington Wizards", Nickname: "Wizards"},
	},
}
