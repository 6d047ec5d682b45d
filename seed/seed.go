// Package seed inserts a fixed demo data set used for local development and
// test fixtures: two users, four posts and four comments. Running it against
// a database that already holds users is rejected, which keeps the seed
// deterministic.
package seed

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"weblog/models"
	"weblog/utils"
)

// ErrAlreadySeeded is returned when the database already contains users.
var ErrAlreadySeeded = errors.New("seed: database already contains data")

// DemoPassword is the plaintext password of every seeded user.
const DemoPassword = "password"

// Run inserts the demo fixtures inside a single transaction.
func Run(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("seed: count users: %w", err)
	}
	if count > 0 {
		return ErrAlreadySeeded
	}

	return db.Transaction(func(tx *gorm.DB) error {
		users, err := demoUsers()
		if err != nil {
			return err
		}
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("seed: users: %w", err)
		}

		posts := demoPosts()
		if err := tx.Create(&posts).Error; err != nil {
			return fmt.Errorf("seed: posts: %w", err)
		}

		comments := demoComments(users, posts)
		if err := tx.Create(&comments).Error; err != nil {
			return fmt.Errorf("seed: comments: %w", err)
		}
		return nil
	})
}

func demoUsers() ([]models.User, error) {
	var users []models.User
	for _, u := range []struct {
		firstname, lastname, email string
	}{
		{"John", "Doe", "johndoe@email.com"},
		{"Jane", "Doe", "janedoe@email.com"},
	} {
		hash, err := utils.HashPassword(DemoPassword)
		if err != nil {
			return nil, fmt.Errorf("seed: hash password: %w", err)
		}
		users = append(users, models.User{
			Firstname:    u.firstname,
			Lastname:     u.lastname,
			Email:        u.email,
			PasswordHash: hash,
		})
	}
	return users, nil
}

func demoPosts() []models.Post {
	return []models.Post{
		{
			Title:     "What is Authentication?",
			Body:      authenticationBody,
			Tags:      "security",
			Timestamp: time.Date(2021, 1, 26, 12, 16, 30, 0, time.Local),
		},
		{
			Title:     "What is Authorization?",
			Body:      authorizationBody,
			Tags:      "security",
			Timestamp: time.Date(2021, 1, 22, 11, 16, 30, 0, time.Local),
		},
		{
			Title:     "What is Encryption?",
			Body:      encryptionBody,
			Tags:      "security",
			Timestamp: time.Date(2021, 1, 28, 9, 30, 0, 0, time.Local),
		},
		{
			Title:     "What is Cloud Computing?",
			Body:      cloudComputingBody,
			Tags:      "technology",
			Timestamp: time.Date(2021, 1, 24, 10, 5, 0, 0, time.Local),
		},
	}
}

func demoComments(users []models.User, posts []models.Post) []models.Comment {
	return []models.Comment{
		{Value: "This is an great article", UserID: users[0].ID, PostID: posts[0].ID},
		{Value: "Your article is awesome", UserID: users[1].ID, PostID: posts[0].ID},
		{Value: "Terrific article", UserID: users[0].ID, PostID: posts[1].ID},
		{Value: "This article is bad. Waste my time.", UserID: users[1].ID, PostID: posts[1].ID},
	}
}

const authenticationBody = "Definition: Authentication is the process of recognizing a user’s identity. It is the " +
	"mechanism of associating an incoming request with a set of identifying credentials. The " +
	"credentials provided are compared to those on a file in a database of the authorized user’s " +
	"information on a local operating system or within an authentication server. Description: " +
	"The authentication process always runs at the start of the application, before the " +
	"permission and throttling checks occur, and before any other code is allowed to proceed. " +
	"Different systems may require different types of credentials to ascertain a user’s " +
	"identity. The credential often takes the form of a password, which is a secret and known " +
	"only to the individual and the system. Three categories in which someone may be " +
	"authenticated are: something the user knows, something the user is, and something the user " +
	"has.Authentication process can be described in two distinct phases - identification and " +
	"actual authentication. Identification phase provides a user identity to the security " +
	"system. This identity is provided in the form of a user ID. The security system will search " +
	"all the abstract objects that it knows and find the specific one of which the actual user " +
	"is currently applying. Once this is done, the user has been identified. The fact that the " +
	"user claims does not necessarily mean that this is true. An actual user can be mapped to " +
	"other abstract user object in the system, and therefore be granted rights and permissions " +
	"to the user and user must give evidence to prove his identity to the system. The process of " +
	"determining claimed user identity by checking user-provided evidence is called " +
	"authentication and the evidence which is provided by the user during process of " +
	"authentication is called a credential."

const authorizationBody = "Definition: Authorization is a security mechanism to determine access levels or " +
	"user/client privileges related to system resources including files, services, " +
	"computer programs, data and application features. This is the process of granting or " +
	"denying access to a network resource which allows the user access to various resources " +
	"based on the user's identity. Description: Most web security systems are based on a " +
	"two-step process. The first step is authentication, which ensures about the user " +
	"identity and the second stage is authorization, which allows the user to access the " +
	"various resources based on the user's identity. Modern operating systems depend on " +
	"effectively designed authorization processes to facilitate application deployment and " +
	"management. Key factors contain user type, number and credentials, requiring " +
	"verification and related actions and roles. Access control in computer systems and " +
	"networks relies on access policies and it is divided into two phases: 1) Policy " +
	"definition phase where access is authorized. 2) Policy enforcement phase where access " +
	"requests are permitted or not permitted. Thus authorization is the function of the " +
	"policy definition phase which precedes the policy enforcement phase where access " +
	"requests are permitted or not permitted based on the previously defined authorizations. " +
	"Access control also uses authentication to check the identity of consumers. When a " +
	"consumer attempts to access a resource, the access control process investigates that " +
	"the consumer has been authorized to use that resource. Authorization services are " +
	"implemented by the Security Server which can control access at the level of individual " +
	"files or programs."

const encryptionBody = "Definition: Encryption is the process of converting readable data into an encoded form " +
	"that can only be read or processed after decryption with the correct key. It protects the " +
	"confidentiality of digital data stored on computer systems or transmitted over a network. " +
	"Description: Modern encryption algorithms fall into two categories, symmetric and " +
	"asymmetric. Symmetric schemes use the same secret key for encryption and decryption, " +
	"while asymmetric schemes use a public key to encrypt and a private key to decrypt. " +
	"Encryption underpins secure communication protocols, password storage and data-at-rest " +
	"protection, and is a building block of both authentication and authorization systems."

const cloudComputingBody = "Definition: Cloud computing is the on-demand delivery of computing services such as " +
	"servers, storage, databases, networking and software over the internet with pay-as-you-go " +
	"pricing. Description: Instead of buying and maintaining physical data centers, " +
	"organizations rent access to computing resources from a cloud provider. The main service " +
	"models are infrastructure as a service, platform as a service and software as a service, " +
	"each trading off control against operational effort. Elasticity, metered usage and " +
	"self-service provisioning distinguish cloud platforms from traditional hosting."
